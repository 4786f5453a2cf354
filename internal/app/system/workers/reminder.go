// Package workers holds the background loops started from the app
// lifecycle hooks.
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	meetingstore "github.com/mandatpro/kommunalcrm/internal/app/store/meetings"
	orgstore "github.com/mandatpro/kommunalcrm/internal/app/store/organizations"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
	"github.com/mandatpro/kommunalcrm/internal/app/system/mailer"
	"github.com/mandatpro/kommunalcrm/internal/app/system/metrics"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// Sender delivers reminder mail. Satisfied by *mailer.Dispatcher.
type Sender interface {
	Send(ctx context.Context, org *models.Organization, e mailer.Email) error
}

// Reminder is the background worker that mails meeting reminders for
// meetings starting inside the lookahead window. Sends are at-least-once:
// a crash between send and mark can repeat a reminder on the next pass.
type Reminder struct {
	meetings *meetingstore.Store
	users    *userstore.Store
	orgs     *orgstore.Store
	docs     *documents.Store
	sender   Sender
	log      *zap.Logger
	interval time.Duration
	window   time.Duration

	// Now is the clock used for the reminder window, replaceable in tests.
	Now func() time.Time

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewReminder creates a reminder worker.
func NewReminder(meetings *meetingstore.Store, users *userstore.Store, orgs *orgstore.Store,
	docs *documents.Store, sender Sender, logger *zap.Logger, interval, window time.Duration) *Reminder {
	return &Reminder{
		meetings: meetings,
		users:    users,
		orgs:     orgs,
		docs:     docs,
		sender:   sender,
		log:      logger,
		interval: interval,
		window:   window,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop. Repeated calls are no-ops so duplicate
// startup hooks cannot spawn a second loop. A stopped worker can be
// started again; each cycle gets a fresh stop channel.
func (w *Reminder) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	w.stopCh = make(chan struct{})
	w.wg.Add(1)
	go w.run(w.stopCh)
	w.log.Info("reminder worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("window", w.window))
}

// Stop signals the worker to stop and waits for it to finish. Calling Stop
// on a worker that never started is a no-op.
func (w *Reminder) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	stopCh := w.stopCh
	w.mu.Unlock()

	close(stopCh)
	w.wg.Wait()
	w.log.Info("reminder worker stopped")
}

func (w *Reminder) run(stopCh chan struct{}) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			w.RunOnce(ctx)
			cancel()
		}
	}
}

// RunOnce executes a single reminder pass. A failure on one meeting is
// logged and does not abort the pass.
func (w *Reminder) RunOnce(ctx context.Context) {
	metrics.ReminderPasses.Inc()

	now := w.Now().UTC()
	from := store.FormatISO(now)
	to := store.FormatISO(now.Add(w.window))

	due, err := w.meetings.DueForReminder(ctx, from, to)
	if err != nil {
		w.log.Error("reminder query failed", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	for _, d := range due {
		if err := w.remind(ctx, d); err != nil {
			w.log.Error("meeting reminder failed",
				zap.String("collection", d.Collection),
				zap.String("meeting_id", d.ID.Hex()),
				zap.String("title", d.Meeting.Title),
				zap.Error(err))
			continue
		}
		metrics.RemindersSent.Inc()
	}
}

func (w *Reminder) remind(ctx context.Context, d meetingstore.Due) error {
	org, err := w.orgs.FindBySlug(ctx, d.Meeting.Organization)
	if err != nil {
		return err
	}

	to, err := w.recipients(ctx, d.Meeting.Organization)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		w.log.Warn("meeting has no reminder recipients",
			zap.String("meeting_id", d.ID.Hex()),
			zap.String("organization", d.Meeting.Organization))
		return w.meetings.MarkReminded(ctx, d.Collection, d.ID)
	}

	if err := w.sender.Send(ctx, org, mailer.BuildReminder(&d.Meeting, to)); err != nil {
		return err
	}
	return w.meetings.MarkReminded(ctx, d.Collection, d.ID)
}

// recipients gathers the organization's member users plus its contacts
// that carry an email address, deduplicated. Both queries are uncapped so
// large organizations do not drop recipients.
func (w *Reminder) recipients(ctx context.Context, orgSlug string) ([]string, error) {
	seen := map[string]bool{}
	var to []string
	add := func(email string) {
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		to = append(to, email)
	}

	members, err := w.users.EmailsByOrganization(ctx, orgSlug)
	if err != nil {
		return nil, err
	}
	for _, email := range members {
		add(email)
	}

	contacts, err := w.docs.ListAll(ctx, "contacts",
		map[string]string{"organization": orgSlug})
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		if email, ok := c["email"].(string); ok {
			add(email)
		}
	}
	return to, nil
}
