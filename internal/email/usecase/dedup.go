package usecase

import (
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"
)

// isDuplicate decides whether msg was already ingested. The provider
// message id is authoritative when present; otherwise the normalized
// subject/sender/day key is checked within the configured window, so a
// replayed fetch after a failed cycle never creates a second event.
func (u *monitorUsecase) isDuplicate(userID string, msg emaildomain.RawMessage) (bool, error) {
	if msg.MessageID != "" {
		return u.eventRepo.ExistsByMessageID(userID, msg.MessageID)
	}
	since := time.Now().Add(-u.cfg.DedupWindow)
	return u.eventRepo.ExistsByDedupKey(userID, emaildomain.ComputeDedupKey(msg), since)
}
