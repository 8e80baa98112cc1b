package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	authdomain "jobtrail-backend/internal/auth/domain"
	"jobtrail-backend/internal/email/classifier"
	emaildomain "jobtrail-backend/internal/email/domain"
	"jobtrail-backend/internal/email/repository"
	jobdomain "jobtrail-backend/internal/job/domain"
	"jobtrail-backend/pkg/config"
	"jobtrail-backend/pkg/fuzzy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes ---

type fakeEventRepo struct {
	mu         sync.Mutex
	events     []*emaildomain.EmailEvent
	failCreate bool
}

func (r *fakeEventRepo) ExistsByMessageID(userID, messageID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.UserID == userID && e.MessageID != nil && *e.MessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) ExistsByDedupKey(userID, dedupKey string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.UserID == userID && e.DedupKey == dedupKey && e.ReceivedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) CreateWithJobStatus(event *emaildomain.EmailEvent, job *jobdomain.Job, newStatus jobdomain.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("storage down")
	}
	r.events = append(r.events, event)
	if job != nil {
		job.ApplicationStatus = newStatus
	}
	return nil
}

func (r *fakeEventRepo) FindByID(userID, id string) (*emaildomain.EmailEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.UserID == userID && e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEventRepo) ListByUser(userID string, filters repository.EventFilters, limit, offset int) ([]*emaildomain.EmailEvent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*emaildomain.EmailEvent
	for _, e := range r.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) Delete(userID, id string) error { return nil }

func (r *fakeEventRepo) BulkDelete(userID string, ids []string) (int64, error) { return 0, nil }

type fakeStateRepo struct {
	mu     sync.Mutex
	states map[string]*emaildomain.MonitoringState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]*emaildomain.MonitoringState)}
}

func (r *fakeStateRepo) Get(userID string) (*emaildomain.MonitoringState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStateRepo) Upsert(state *emaildomain.MonitoringState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Existing rows keep their watermark, mirroring the conflict-update
	// column set of the real repository
	if existing, ok := r.states[state.UserID]; ok {
		existing.Active = state.Active
		existing.IntervalMinutes = state.IntervalMinutes
		return nil
	}
	cp := *state
	r.states[state.UserID] = &cp
	return nil
}

func (r *fakeStateRepo) TryAcquireRun(userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[userID]
	if !ok || s.Running {
		return false, nil
	}
	s.Running = true
	return true, nil
}

func (r *fakeStateRepo) ReleaseRun(userID string, checkedAt time.Time, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.states[userID]; ok {
		s.Running = false
		s.LastCheckedAt = &checkedAt
		s.LastError = lastError
	}
	return nil
}

func (r *fakeStateRepo) AdvanceWatermark(userID string, watermark time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.states[userID]; ok && s.Watermark.Before(watermark) {
		s.Watermark = watermark
	}
	return nil
}

func (r *fakeStateRepo) ListActive() ([]*emaildomain.MonitoringState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*emaildomain.MonitoringState
	for _, s := range r.states {
		if s.Active {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeStateRepo) ClearStaleRuns() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.states {
		s.Running = false
	}
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs []*jobdomain.Job
}

func (r *fakeJobRepo) Create(job *jobdomain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.CompanyNorm = fuzzy.NormalizeCompany(job.CompanyName)
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *fakeJobRepo) FindByID(userID, id string) (*jobdomain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.UserID == userID && j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (r *fakeJobRepo) FindByUserID(userID string, status *jobdomain.ApplicationStatus, limit, offset int) ([]*jobdomain.Job, int64, error) {
	return nil, 0, nil
}

func (r *fakeJobRepo) FindAllByUser(userID string) ([]*jobdomain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*jobdomain.Job
	for _, j := range r.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) FindOpenByCompany(userID, companyNorm string) ([]*jobdomain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*jobdomain.Job
	for _, j := range r.jobs {
		if j.UserID == userID && j.CompanyNorm == companyNorm && !j.ApplicationStatus.IsTerminal() {
			out = append(out, j)
		}
	}
	// newest applied date first, like the real query
	for i := 0; i < len(out); i++ {
		for k := i + 1; k < len(out); k++ {
			if laterApplied(out[k], out[i]) {
				out[i], out[k] = out[k], out[i]
			}
		}
	}
	return out, nil
}

func laterApplied(a, b *jobdomain.Job) bool {
	if a.AppliedDate == nil {
		return false
	}
	if b.AppliedDate == nil {
		return true
	}
	return a.AppliedDate.After(*b.AppliedDate)
}

func (r *fakeJobRepo) Update(job *jobdomain.Job) error { return nil }

func (r *fakeJobRepo) ResetStatus(userID, id string, status jobdomain.ApplicationStatus) error {
	return nil
}

func (r *fakeJobRepo) Delete(userID, id string) error { return nil }

type fakeUserRepo struct {
	user *authdomain.User
}

func (r *fakeUserRepo) Create(user *authdomain.User) error { return nil }

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) { return nil, nil }

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error { return nil }

func (r *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error { return nil }

func (r *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error { return nil }

type fakeProvider struct {
	mu       sync.Mutex
	messages []emaildomain.RawMessage
	err      error
	fetches  int
}

func (p *fakeProvider) Fetch(ctx context.Context, creds emaildomain.MailCredentials, since time.Time) ([]emaildomain.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	if p.err != nil {
		return nil, p.err
	}
	return p.messages, nil
}

type recordingNotifier struct {
	mu            sync.Mutex
	eventCount    int
	statusChanges []jobdomain.ApplicationStatus
}

func (n *recordingNotifier) EmailEventCreated(userID string, event *emaildomain.EmailEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.eventCount++
}

func (n *recordingNotifier) JobStatusChanged(userID string, job *jobdomain.Job, event *emaildomain.EmailEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanges = append(n.statusChanges, job.ApplicationStatus)
}

// --- fixtures ---

const testUserID = "user-1"

type fixture struct {
	uc       MonitorUsecase
	events   *fakeEventRepo
	states   *fakeStateRepo
	jobs     *fakeJobRepo
	provider *fakeProvider
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		events:   &fakeEventRepo{},
		states:   newFakeStateRepo(),
		jobs:     &fakeJobRepo{},
		provider: &fakeProvider{},
		notifier: &recordingNotifier{},
	}

	users := &fakeUserRepo{user: &authdomain.User{
		ID:          testUserID,
		Email:       "me@example.com",
		AccessToken: "gmail-token",
	}}

	cfg := &config.Config{
		ClassifierMinConfidence: 40,
		MonitorDefaultInterval:  15 * time.Minute,
		MonitorFetchTimeout:     time.Minute,
		DedupWindow:             48 * time.Hour,
	}

	f.uc = NewMonitorUsecase(f.events, f.states, f.jobs, users, f.provider, &fakeProvider{}, classifier.New(40), cfg)
	f.uc.SetNotifier(f.notifier)
	return f
}

func (f *fixture) addJob(t *testing.T, company, url string, status jobdomain.ApplicationStatus) *jobdomain.Job {
	t.Helper()
	applied := time.Now().Add(-72 * time.Hour)
	job := &jobdomain.Job{
		ID:                "job-" + company + "-" + fmt.Sprint(len(f.jobs.jobs)),
		UserID:            testUserID,
		JobURL:            url,
		CompanyName:       company,
		JobTitle:          "Backend Engineer",
		ApplicationStatus: status,
		AppliedDate:       &applied,
	}
	require.NoError(t, f.jobs.Create(job))
	return job
}

func rejectionMessage(id string) emaildomain.RawMessage {
	return emaildomain.RawMessage{
		MessageID:   id,
		Subject:     "Update on your application",
		FromAddress: "Acme Recruiting <no-reply@acme.com>",
		ReceivedAt:  time.Now().Add(-time.Hour),
		BodyText:    "We regret to inform you that we will not be moving forward with your application.",
	}
}

// --- tests ---

func TestCheckNowCreatesEventAndUpdatesJob(t *testing.T) {
	f := newFixture(t)
	job := f.addJob(t, "Acme", "https://acme.com/careers/123", jobdomain.StatusApplied)
	f.provider.messages = []emaildomain.RawMessage{rejectionMessage("msg-1")}

	summary, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProcessedCount)
	assert.Equal(t, 1, summary.MatchedCount)
	assert.Equal(t, 1, summary.StatusUpdates)

	assert.Equal(t, jobdomain.StatusRejected, job.ApplicationStatus)

	require.Len(t, f.events.events, 1)
	event := f.events.events[0]
	assert.Equal(t, emaildomain.TypeRejection, event.Type)
	require.NotNil(t, event.JobID)
	assert.Equal(t, job.ID, *event.JobID)
	assert.True(t, event.Metadata.JobStatusUpdated())

	assert.Equal(t, 1, f.notifier.eventCount)
	assert.Equal(t, []jobdomain.ApplicationStatus{jobdomain.StatusRejected}, f.notifier.statusChanges)
}

func TestCheckNowIsIdempotentAcrossRefetches(t *testing.T) {
	f := newFixture(t)
	f.addJob(t, "Acme", "", jobdomain.StatusApplied)
	f.provider.messages = []emaildomain.RawMessage{rejectionMessage("msg-1")}

	_, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	// Provider returns the same message again on the next cycle
	summary, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ProcessedCount)
	assert.Len(t, f.events.events, 1)
}

func TestCheckNowDedupWithoutMessageID(t *testing.T) {
	f := newFixture(t)
	msg := rejectionMessage("")
	f.provider.messages = []emaildomain.RawMessage{msg, msg}

	summary, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	// Same subject, sender and day collapse to one event
	assert.Equal(t, 1, summary.ProcessedCount)
	assert.Len(t, f.events.events, 1)
	assert.Nil(t, f.events.events[0].MessageID)
}

func TestCheckNowUnmatchedEventIsStillPersisted(t *testing.T) {
	f := newFixture(t)
	f.provider.messages = []emaildomain.RawMessage{{
		MessageID:   "msg-1",
		Subject:     "Application received",
		FromAddress: "jobs@greenhouse.io",
		ReceivedAt:  time.Now().Add(-time.Hour),
		BodyText:    "Thank you for applying. We have received your application.",
	}}

	summary, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProcessedCount)
	assert.Equal(t, 0, summary.MatchedCount)
	require.Len(t, f.events.events, 1)
	assert.Nil(t, f.events.events[0].JobID)
	// The flag is written explicitly even without a matched job
	assert.Equal(t, false, f.events.events[0].Metadata[emaildomain.MetaJobStatusUpdated])
}

func TestCheckNowNeverRegressesTerminalJob(t *testing.T) {
	f := newFixture(t)
	job := f.addJob(t, "Acme", "", jobdomain.StatusRejected)
	f.provider.messages = []emaildomain.RawMessage{rejectionMessage("msg-1")}

	summary, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	// Terminal jobs are excluded from company matching entirely
	assert.Equal(t, jobdomain.StatusRejected, job.ApplicationStatus)
	assert.Equal(t, 0, summary.StatusUpdates)
	require.Len(t, f.events.events, 1)
	assert.Nil(t, f.events.events[0].JobID)
	assert.Empty(t, f.notifier.statusChanges)
}

func TestCheckNowURLMatchOnTerminalJobLinksWithoutTransition(t *testing.T) {
	f := newFixture(t)
	job := f.addJob(t, "Initech", "https://initech.com/jobs/42", jobdomain.StatusOffer)

	f.provider.messages = []emaildomain.RawMessage{{
		MessageID:   "msg-1",
		Subject:     "Re: your application",
		FromAddress: "hr@initech.com",
		ReceivedAt:  time.Now().Add(-time.Hour),
		BodyText:    "Regarding https://initech.com/jobs/42 we regret to inform you that we will not be moving forward.",
	}}

	summary, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	// A URL match links the event to the job even in a terminal state,
	// but the terminal state absorbs the transition
	assert.Equal(t, 1, summary.MatchedCount)
	assert.Equal(t, 0, summary.StatusUpdates)
	assert.Equal(t, jobdomain.StatusOffer, job.ApplicationStatus)

	require.Len(t, f.events.events, 1)
	event := f.events.events[0]
	require.NotNil(t, event.JobID)
	assert.Equal(t, job.ID, *event.JobID)
	assert.False(t, event.Metadata.JobStatusUpdated())
	assert.Equal(t, false, event.Metadata[emaildomain.MetaJobStatusUpdated])
	assert.Empty(t, f.notifier.statusChanges)
}

func TestCheckNowMatchesByURLFirst(t *testing.T) {
	f := newFixture(t)
	urlJob := f.addJob(t, "Initech", "https://initech.com/jobs/42", jobdomain.StatusApplied)
	f.addJob(t, "Acme", "", jobdomain.StatusApplied)

	f.provider.messages = []emaildomain.RawMessage{{
		MessageID:   "msg-1",
		Subject:     "Update on your application",
		FromAddress: "no-reply@acme.com", // company signal points at the wrong job
		ReceivedAt:  time.Now().Add(-time.Hour),
		BodyText:    "Regarding https://initech.com/jobs/42 we regret to inform you that we will not be moving forward.",
	}}

	_, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	require.Len(t, f.events.events, 1)
	require.NotNil(t, f.events.events[0].JobID)
	assert.Equal(t, urlJob.ID, *f.events.events[0].JobID)
}

func TestCheckNowCompanyTieBreaksOnNewestApplication(t *testing.T) {
	f := newFixture(t)
	older := f.addJob(t, "Acme", "", jobdomain.StatusApplied)
	newer := f.addJob(t, "Acme", "https://acme.com/jobs/2", jobdomain.StatusApplied)
	earlier := older.AppliedDate.Add(-24 * time.Hour)
	older.AppliedDate = &earlier

	f.provider.messages = []emaildomain.RawMessage{rejectionMessage("msg-1")}

	_, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	require.Len(t, f.events.events, 1)
	require.NotNil(t, f.events.events[0].JobID)
	assert.Equal(t, newer.ID, *f.events.events[0].JobID)
	assert.Equal(t, jobdomain.StatusApplied, older.ApplicationStatus)
}

func TestCheckNowFailsFastWhenCycleInFlight(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.states.Upsert(&emaildomain.MonitoringState{UserID: testUserID}))
	acquired, err := f.states.TryAcquireRun(testUserID)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = f.uc.CheckNow(context.Background(), testUserID)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, 0, f.provider.fetches)
}

func TestCheckNowMailboxUnavailableKeepsWatermark(t *testing.T) {
	f := newFixture(t)
	watermark := time.Now().Add(-6 * time.Hour).Truncate(time.Second)
	require.NoError(t, f.states.Upsert(&emaildomain.MonitoringState{UserID: testUserID, Watermark: watermark}))
	f.provider.err = fmt.Errorf("%w: connection refused", emaildomain.ErrMailboxUnavailable)

	_, err := f.uc.CheckNow(context.Background(), testUserID)
	assert.ErrorIs(t, err, emaildomain.ErrMailboxUnavailable)

	state, getErr := f.states.Get(testUserID)
	require.NoError(t, getErr)
	assert.Equal(t, watermark, state.Watermark)
	assert.False(t, state.Running)
	assert.Contains(t, state.LastError, "connection refused")

	// A later cycle can run again
	f.provider.err = nil
	_, err = f.uc.CheckNow(context.Background(), testUserID)
	assert.NoError(t, err)
}

func TestCheckNowAdvancesWatermarkToNewestMessage(t *testing.T) {
	f := newFixture(t)
	newest := time.Now().Add(-30 * time.Minute).Truncate(time.Second)
	older := rejectionMessage("msg-old")
	latest := emaildomain.RawMessage{
		MessageID:   "msg-new",
		Subject:     "Application received",
		FromAddress: "jobs@greenhouse.io",
		ReceivedAt:  newest,
		BodyText:    "We have received your application. Thank you for applying.",
	}
	f.provider.messages = []emaildomain.RawMessage{older, latest}

	_, err := f.uc.CheckNow(context.Background(), testUserID)
	require.NoError(t, err)

	state, getErr := f.states.Get(testUserID)
	require.NoError(t, getErr)
	assert.Equal(t, newest, state.Watermark)
}

func TestCheckNowStorageFailureAbortsWithoutAdvancingWatermark(t *testing.T) {
	f := newFixture(t)
	watermark := time.Now().Add(-6 * time.Hour).Truncate(time.Second)
	require.NoError(t, f.states.Upsert(&emaildomain.MonitoringState{UserID: testUserID, Watermark: watermark}))
	f.events.failCreate = true
	f.provider.messages = []emaildomain.RawMessage{rejectionMessage("msg-1")}

	_, err := f.uc.CheckNow(context.Background(), testUserID)
	require.Error(t, err)

	state, getErr := f.states.Get(testUserID)
	require.NoError(t, getErr)
	assert.Equal(t, watermark, state.Watermark)
	assert.Empty(t, f.events.events)
	assert.Equal(t, 0, f.notifier.eventCount)
}

func TestCheckNowNoMailboxConnected(t *testing.T) {
	f := newFixture(t)
	users := &fakeUserRepo{user: &authdomain.User{ID: testUserID, Email: "me@example.com"}}
	cfg := &config.Config{
		MonitorDefaultInterval: 15 * time.Minute,
		MonitorFetchTimeout:    time.Minute,
		DedupWindow:            48 * time.Hour,
	}
	f.uc = NewMonitorUsecase(f.events, f.states, f.jobs, users, f.provider, &fakeProvider{}, classifier.New(40), cfg)

	_, err := f.uc.CheckNow(context.Background(), testUserID)
	assert.ErrorIs(t, err, ErrNoMailbox)
}

func TestStartAndStopMonitoring(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.StartMonitoring(testUserID, 0))

	state, err := f.states.Get(testUserID)
	require.NoError(t, err)
	assert.True(t, state.Active)
	assert.Equal(t, 15, state.IntervalMinutes)

	// Starting again with a new interval is a reschedule, not an error
	require.NoError(t, f.uc.StartMonitoring(testUserID, 5))
	state, err = f.states.Get(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 5, state.IntervalMinutes)

	require.NoError(t, f.uc.StopMonitoring(testUserID))
	state, err = f.states.Get(testUserID)
	require.NoError(t, err)
	assert.False(t, state.Active)

	f.uc.Shutdown()
}

func TestStartMonitoringDoesNotRewindWatermark(t *testing.T) {
	f := newFixture(t)
	initial := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	require.NoError(t, f.states.Upsert(&emaildomain.MonitoringState{
		UserID:    testUserID,
		Watermark: initial,
	}))

	// A cycle advances the watermark between the read and the write of a
	// concurrent re-start
	advanced := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, f.states.AdvanceWatermark(testUserID, advanced))

	require.NoError(t, f.uc.StartMonitoring(testUserID, 10))
	defer f.uc.Shutdown()

	state, err := f.states.Get(testUserID)
	require.NoError(t, err)
	assert.Equal(t, advanced, state.Watermark)
	assert.Equal(t, 10, state.IntervalMinutes)
	assert.True(t, state.Active)
}

func TestResumeActiveLoopsClearsStaleRunFlags(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.states.Upsert(&emaildomain.MonitoringState{
		UserID:          testUserID,
		Active:          true,
		IntervalMinutes: 15,
	}))
	// Simulate a crash mid-cycle
	acquired, err := f.states.TryAcquireRun(testUserID)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, f.uc.ResumeActiveLoops())
	defer f.uc.Shutdown()

	// The flag is cleared so the resumed loop is not locked out
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state, err := f.states.Get(testUserID)
		require.NoError(t, err)
		if state.LastCheckedAt != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("resumed loop never completed a cycle")
}

func TestGetMonitoringStatusDefaultsWhenUnconfigured(t *testing.T) {
	f := newFixture(t)

	state, err := f.uc.GetMonitoringStatus(testUserID)
	require.NoError(t, err)
	assert.False(t, state.Active)
	assert.Equal(t, 15, state.IntervalMinutes)
}
