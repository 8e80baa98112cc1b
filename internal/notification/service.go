package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	authrepo "jobtrail-backend/internal/auth/repository"
	emaildomain "jobtrail-backend/internal/email/domain"
	jobdomain "jobtrail-backend/internal/job/domain"
	"jobtrail-backend/pkg/fcm"
	"jobtrail-backend/pkg/sse"
)

// Service fans reconciler outcomes out to the user's live dashboard (SSE)
// and registered devices (FCM). Every method is fire-and-forget: delivery
// failures are logged and never surface to the monitoring engine.
type Service struct {
	sseManager *sse.Manager
	fcmClient  *fcm.Client // nil when push is not configured
	tokenRepo  authrepo.FCMTokenRepository
}

func NewService(sseManager *sse.Manager, fcmClient *fcm.Client, tokenRepo authrepo.FCMTokenRepository) *Service {
	return &Service{
		sseManager: sseManager,
		fcmClient:  fcmClient,
		tokenRepo:  tokenRepo,
	}
}

// EmailEventCreated announces a newly ingested email event
func (s *Service) EmailEventCreated(userID string, event *emaildomain.EmailEvent) {
	s.sseManager.SendToUser(userID, "email_event", event)

	// Low-signal events go to the dashboard only; push is reserved for
	// classifications the user would act on
	if event.Type == emaildomain.TypeOther || event.Type == emaildomain.TypeNotJobRelated {
		return
	}

	go s.push(userID, fcm.NotificationData{
		Title: pushTitle(event.Type),
		Body:  event.Subject,
		Data: map[string]string{
			"eventId": event.ID,
			"type":    string(event.Type),
		},
	})
}

// JobStatusChanged announces a job moved to a new application status
func (s *Service) JobStatusChanged(userID string, job *jobdomain.Job, event *emaildomain.EmailEvent) {
	s.sseManager.SendToUser(userID, "job_status_changed", map[string]interface{}{
		"job":   job,
		"event": event,
	})

	go s.push(userID, fcm.NotificationData{
		Title: "Application update",
		Body:  fmt.Sprintf("%s at %s is now %s", job.JobTitle, job.CompanyName, job.ApplicationStatus),
		Data: map[string]string{
			"jobId":  job.ID,
			"status": string(job.ApplicationStatus),
		},
	})
}

func (s *Service) push(userID string, data fcm.NotificationData) {
	if s.fcmClient == nil {
		return
	}

	tokens, err := s.tokenRepo.GetTokensByUserID(userID)
	if err != nil {
		log.Printf("[Notification] Failed to load FCM tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	failed, err := s.fcmClient.SendToDevices(ctx, tokenStrings, data)
	if err != nil {
		log.Printf("[Notification] FCM send failed for user %s: %v", userID, err)
		return
	}

	// Stale device tokens come back as failures; drop them
	for _, token := range failed {
		if err := s.tokenRepo.DeleteToken(token); err != nil {
			log.Printf("[Notification] Failed to remove stale FCM token: %v", err)
		}
	}
}

func pushTitle(t emaildomain.EmailType) string {
	switch t {
	case emaildomain.TypeRejection:
		return "Application rejected"
	case emaildomain.TypeInterviewInvite:
		return "Interview invitation"
	case emaildomain.TypeAssessment:
		return "Assessment received"
	case emaildomain.TypeOffer:
		return "Offer received"
	case emaildomain.TypeApplicationConfirmation:
		return "Application confirmed"
	case emaildomain.TypeFollowUp:
		return "Application follow-up"
	}
	return "New job email"
}
