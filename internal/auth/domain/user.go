package domain

import "time"

type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-"` // Never return password in JSON
	Name      string    `json:"name"`
	Provider  string    `json:"provider"` // "email" or "google"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Gmail OAuth tokens, set when the user connects a Google mailbox
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-" gorm:"column:mail_refresh_token"`

	// IMAP credentials, set when the user connects a plain mailbox
	IMAPHost     string `json:"-"`
	IMAPUsername string `json:"-"`
	IMAPPassword string `json:"-"`
}

// MailProviderKind reports which mailbox the monitor should poll for this
// user, or "" when none is connected
func (u *User) MailProviderKind() string {
	if u.AccessToken != "" || u.RefreshToken != "" {
		return "gmail"
	}
	if u.IMAPHost != "" {
		return "imap"
	}
	return ""
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FCMToken is one registered push-notification device of a user
type FCMToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	Token      string    `json:"token" gorm:"uniqueIndex;not null"`
	DeviceInfo string    `json:"device_info,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
