package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	authdomain "jobtrail-backend/internal/auth/domain"
	authrepo "jobtrail-backend/internal/auth/repository"
	"jobtrail-backend/internal/email/classifier"
	emaildomain "jobtrail-backend/internal/email/domain"
	"jobtrail-backend/internal/email/repository"
	jobrepo "jobtrail-backend/internal/job/repository"
	"jobtrail-backend/pkg/config"

	"golang.org/x/oauth2"
)

// How far back the first cycle of a fresh monitoring state looks
const initialBackfill = 24 * time.Hour

// monitorUsecase implements MonitorUsecase
type monitorUsecase struct {
	eventRepo repository.EmailEventRepository
	stateRepo repository.MonitoringStateRepository
	jobRepo   jobrepo.JobRepository
	userRepo  authrepo.UserRepository

	gmailProvider emaildomain.MailProvider
	imapProvider  emaildomain.MailProvider

	classifier *classifier.Classifier
	cfg        *config.Config
	notifier   Notifier

	loopsMu sync.Mutex
	loops   map[string]chan struct{} // userID -> stop channel
}

// NewMonitorUsecase creates a new instance of monitorUsecase
func NewMonitorUsecase(
	eventRepo repository.EmailEventRepository,
	stateRepo repository.MonitoringStateRepository,
	jobRepo jobrepo.JobRepository,
	userRepo authrepo.UserRepository,
	gmailProvider emaildomain.MailProvider,
	imapProvider emaildomain.MailProvider,
	cls *classifier.Classifier,
	cfg *config.Config,
) MonitorUsecase {
	return &monitorUsecase{
		eventRepo:     eventRepo,
		stateRepo:     stateRepo,
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		gmailProvider: gmailProvider,
		imapProvider:  imapProvider,
		classifier:    cls,
		cfg:           cfg,
		loops:         make(map[string]chan struct{}),
	}
}

// SetNotifier allows wiring the notification sink after creation
func (u *monitorUsecase) SetNotifier(n Notifier) {
	u.notifier = n
}

func (u *monitorUsecase) StartMonitoring(userID string, intervalMinutes int) error {
	if intervalMinutes <= 0 {
		intervalMinutes = int(u.cfg.MonitorDefaultInterval.Minutes())
	}

	state, err := u.stateRepo.Get(userID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &emaildomain.MonitoringState{
			UserID:    userID,
			Watermark: time.Now().Add(-initialBackfill),
		}
	}
	state.Active = true
	state.IntervalMinutes = intervalMinutes

	if err := u.stateRepo.Upsert(state); err != nil {
		return err
	}

	u.startLoop(userID, time.Duration(intervalMinutes)*time.Minute)
	return nil
}

func (u *monitorUsecase) StopMonitoring(userID string) error {
	state, err := u.stateRepo.Get(userID)
	if err != nil {
		return err
	}
	if state != nil && state.Active {
		state.Active = false
		if err := u.stateRepo.Upsert(state); err != nil {
			return err
		}
	}

	u.loopsMu.Lock()
	if stop, ok := u.loops[userID]; ok {
		close(stop)
		delete(u.loops, userID)
	}
	u.loopsMu.Unlock()
	return nil
}

func (u *monitorUsecase) CheckNow(ctx context.Context, userID string) (*emaildomain.CycleSummary, error) {
	if err := u.ensureState(userID); err != nil {
		return nil, err
	}
	return u.runCycle(ctx, userID)
}

func (u *monitorUsecase) GetMonitoringStatus(userID string) (*emaildomain.MonitoringState, error) {
	state, err := u.stateRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		// Monitoring was never configured; report the inactive default
		return &emaildomain.MonitoringState{
			UserID:          userID,
			IntervalMinutes: int(u.cfg.MonitorDefaultInterval.Minutes()),
		}, nil
	}
	return state, nil
}

func (u *monitorUsecase) ListEmailEvents(userID string, filters repository.EventFilters, limit, offset int) ([]*emaildomain.EmailEvent, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.eventRepo.ListByUser(userID, filters, limit, offset)
}

func (u *monitorUsecase) DeleteEmailEvent(userID, eventID string) error {
	return u.eventRepo.Delete(userID, eventID)
}

func (u *monitorUsecase) BulkDeleteEmailEvents(userID string, eventIDs []string) (int64, error) {
	return u.eventRepo.BulkDelete(userID, eventIDs)
}

func (u *monitorUsecase) ReloadClassifierRules() error {
	return u.classifier.Reload()
}

func (u *monitorUsecase) ResumeActiveLoops() error {
	// A crash can leave run flags set; clear them before restarting loops
	if err := u.stateRepo.ClearStaleRuns(); err != nil {
		return err
	}

	states, err := u.stateRepo.ListActive()
	if err != nil {
		return err
	}
	for _, state := range states {
		interval := time.Duration(state.IntervalMinutes) * time.Minute
		if interval <= 0 {
			interval = u.cfg.MonitorDefaultInterval
		}
		u.startLoop(state.UserID, interval)
	}
	if len(states) > 0 {
		log.Printf("[Monitor] Resumed %d monitoring loops", len(states))
	}
	return nil
}

func (u *monitorUsecase) Shutdown() {
	u.loopsMu.Lock()
	defer u.loopsMu.Unlock()
	for userID, stop := range u.loops {
		close(stop)
		delete(u.loops, userID)
	}
}

// ensureState creates an inactive monitoring state on first use, so an
// on-demand check works before monitoring was ever started
func (u *monitorUsecase) ensureState(userID string) error {
	state, err := u.stateRepo.Get(userID)
	if err != nil {
		return err
	}
	if state != nil {
		return nil
	}
	return u.stateRepo.Upsert(&emaildomain.MonitoringState{
		UserID:    userID,
		Watermark: time.Now().Add(-initialBackfill),
	})
}

// startLoop (re)starts the per-user ticker goroutine. Loops run
// concurrently across users but never concurrently with themselves: the
// run flag in the monitoring state serializes cycles.
func (u *monitorUsecase) startLoop(userID string, interval time.Duration) {
	u.loopsMu.Lock()
	defer u.loopsMu.Unlock()

	if old, ok := u.loops[userID]; ok {
		close(old)
	}
	stop := make(chan struct{})
	u.loops[userID] = stop
	go u.loop(userID, interval, stop)
}

func (u *monitorUsecase) loop(userID string, interval time.Duration, stop <-chan struct{}) {
	log.Printf("[Monitor] Loop started for user %s (interval %s)", userID, interval)

	// Run once right away so a freshly started monitor gives feedback
	// before the first tick
	u.tick(userID)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			u.tick(userID)
		case <-stop:
			log.Printf("[Monitor] Loop stopped for user %s", userID)
			return
		}
	}
}

func (u *monitorUsecase) tick(userID string) {
	summary, err := u.runCycle(context.Background(), userID)
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		log.Printf("[Monitor] Tick skipped for user %s: cycle already running", userID)
	case errors.Is(err, emaildomain.ErrMailboxUnavailable):
		log.Printf("[Monitor] Mailbox unavailable for user %s, will retry next tick: %v", userID, err)
	case errors.Is(err, ErrNoMailbox):
		log.Printf("[Monitor] No mailbox connected for user %s", userID)
	case err != nil:
		log.Printf("[Monitor] Cycle failed for user %s: %v", userID, err)
	default:
		if summary.ProcessedCount > 0 {
			log.Printf("[Monitor] Cycle for user %s: %d new, %d matched, %d status updates",
				userID, summary.ProcessedCount, summary.MatchedCount, summary.StatusUpdates)
		}
	}
}

// runCycle is one fetch/classify/reconcile pass over the user's mailbox.
// The watermark only advances after every fetched message was handled, so
// a failed cycle is replayed in full on the next tick and the deduplicator
// absorbs the repeats.
func (u *monitorUsecase) runCycle(ctx context.Context, userID string) (*emaildomain.CycleSummary, error) {
	acquired, err := u.stateRepo.TryAcquireRun(userID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrAlreadyRunning
	}

	var cycleErr error
	defer func() {
		errMsg := ""
		if cycleErr != nil {
			errMsg = cycleErr.Error()
		}
		if err := u.stateRepo.ReleaseRun(userID, time.Now(), errMsg); err != nil {
			log.Printf("[Monitor] Failed to release run flag for user %s: %v", userID, err)
		}
	}()

	fail := func(err error) (*emaildomain.CycleSummary, error) {
		cycleErr = err
		return nil, err
	}

	state, err := u.stateRepo.Get(userID)
	if err != nil {
		return fail(err)
	}
	if state == nil {
		return fail(errors.New("monitoring state missing"))
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return fail(err)
	}
	if user == nil {
		return fail(errors.New("user not found"))
	}

	provider, creds, err := u.providerFor(user)
	if err != nil {
		return fail(err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, u.cfg.MonitorFetchTimeout)
	defer cancel()

	messages, err := provider.Fetch(fetchCtx, creds, state.Watermark)
	if err != nil {
		return fail(err)
	}

	summary := &emaildomain.CycleSummary{}
	maxReceived := state.Watermark

	for _, msg := range messages {
		if err := u.processMessage(userID, msg, summary); err != nil {
			// Persistence failures abort the cycle; everything already
			// committed stays, the watermark does not move
			cycleErr = err
			return summary, err
		}
		if msg.ReceivedAt.After(maxReceived) {
			maxReceived = msg.ReceivedAt
		}
	}

	if maxReceived.After(state.Watermark) {
		if err := u.stateRepo.AdvanceWatermark(userID, maxReceived); err != nil {
			cycleErr = err
			return summary, err
		}
	}

	return summary, nil
}

// processMessage runs one message through dedup -> classify -> match ->
// reconcile. Classification problems are isolated per message; only
// persistence errors propagate.
func (u *monitorUsecase) processMessage(userID string, msg emaildomain.RawMessage, summary *emaildomain.CycleSummary) error {
	duplicate, err := u.isDuplicate(userID, msg)
	if err != nil {
		return err
	}
	if duplicate {
		return nil
	}

	result := u.classifySafe(msg)

	job, err := u.matchJob(userID, msg, result)
	if err != nil {
		return err
	}

	return u.reconcile(userID, msg, result, job, summary)
}

// classifySafe never lets a malformed message take down the cycle: on
// panic the message is recorded as `other` with zero confidence, which
// still persists it for audit
func (u *monitorUsecase) classifySafe(msg emaildomain.RawMessage) (result classifier.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Monitor] Classifier panic on message %q: %v", msg.Subject, r)
			result = classifier.Result{
				Type:       emaildomain.TypeOther,
				Confidence: 0,
				Metadata:   emaildomain.EventMetadata{},
			}
		}
	}()
	return u.classifier.Classify(msg)
}

// providerFor picks the mail provider matching the user's connected
// mailbox and assembles its credentials
func (u *monitorUsecase) providerFor(user *authdomain.User) (emaildomain.MailProvider, emaildomain.MailCredentials, error) {
	switch user.MailProviderKind() {
	case "gmail":
		creds := emaildomain.MailCredentials{
			AccessToken:  user.AccessToken,
			RefreshToken: user.RefreshToken,
			OnTokenRefresh: func(newToken *oauth2.Token) error {
				user.AccessToken = newToken.AccessToken
				if newToken.RefreshToken != "" {
					user.RefreshToken = newToken.RefreshToken
				}
				return u.userRepo.Update(user)
			},
		}
		return u.gmailProvider, creds, nil
	case "imap":
		creds := emaildomain.MailCredentials{
			IMAPHost:     user.IMAPHost,
			IMAPUsername: user.IMAPUsername,
			IMAPPassword: user.IMAPPassword,
		}
		return u.imapProvider, creds, nil
	}
	return nil, emaildomain.MailCredentials{}, ErrNoMailbox
}
