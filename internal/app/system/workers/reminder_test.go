package workers_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	meetingstore "github.com/mandatpro/kommunalcrm/internal/app/store/meetings"
	orgstore "github.com/mandatpro/kommunalcrm/internal/app/store/organizations"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
	"github.com/mandatpro/kommunalcrm/internal/app/system/mailer"
	"github.com/mandatpro/kommunalcrm/internal/app/system/workers"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
	"github.com/mandatpro/kommunalcrm/internal/testutil"
)

type fakeSender struct {
	sent []mailer.Email
	fail bool
}

func (f *fakeSender) Send(_ context.Context, _ *models.Organization, e mailer.Email) error {
	if f.fail {
		return errors.New("transport down")
	}
	f.sent = append(f.sent, e)
	return nil
}

func newTestReminder(t *testing.T, sender workers.Sender, now time.Time) (*workers.Reminder, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	w := workers.NewReminder(
		meetingstore.New(db),
		userstore.New(db),
		orgstore.New(db),
		documents.New(db),
		sender,
		zap.NewNop(),
		time.Hour,
		24*time.Hour,
	)
	w.Now = func() time.Time { return now }
	return w, testutil.NewFixtures(t, db)
}

func TestRunOnceSendsAndMarks(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sender := &fakeSender{}
	w, fx := newTestReminder(t, sender, now)

	fx.CreateOrganization(ctx, "spd-teststadt", "SPD Teststadt")
	fx.CreateUser(ctx, "mitglied@teststadt.de", "pw", "spd-teststadt")
	fx.CreateContact(ctx, "Erika Muster", "erika@example.com", "spd-teststadt")
	m := fx.CreateMeeting(ctx, "meetings", "Vorstandssitzung", "spd-teststadt",
		store.FormatISO(now.Add(12*time.Hour)))

	w.RunOnce(ctx)

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if got := sender.sent[0].Subject; got != "Erinnerung: Vorstandssitzung" {
		t.Errorf("subject = %q", got)
	}
	if got := len(sender.sent[0].To); got != 2 {
		t.Errorf("recipients = %v, want member and contact", sender.sent[0].To)
	}

	var updated models.Meeting
	if err := fx.DB().Collection("meetings").FindOne(ctx, bson.M{"_id": m.ID}).Decode(&updated); err != nil {
		t.Fatalf("reload meeting: %v", err)
	}
	if !updated.ReminderSent || updated.ReminderSentAt == "" {
		t.Errorf("meeting not marked reminded: %+v", updated)
	}

	// Second pass inside the same window must not send again.
	w.RunOnce(ctx)
	if len(sender.sent) != 1 {
		t.Fatalf("second pass sent again, total %d", len(sender.sent))
	}
}

func TestRunOnceIgnoresMeetingsOutsideWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sender := &fakeSender{}
	w, fx := newTestReminder(t, sender, now)

	fx.CreateOrganization(ctx, "spd-teststadt", "SPD Teststadt")
	fx.CreateUser(ctx, "mitglied@teststadt.de", "pw", "spd-teststadt")
	fx.CreateMeeting(ctx, "meetings", "Vergangene Sitzung", "spd-teststadt",
		store.FormatISO(now.Add(-2*time.Hour)))
	fx.CreateMeeting(ctx, "meetings", "Ferne Sitzung", "spd-teststadt",
		store.FormatISO(now.Add(48*time.Hour)))

	w.RunOnce(ctx)

	if len(sender.sent) != 0 {
		t.Fatalf("sent %d emails for out-of-window meetings", len(sender.sent))
	}
}

func TestRunOnceCoversBothCollections(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sender := &fakeSender{}
	w, fx := newTestReminder(t, sender, now)

	fx.CreateOrganization(ctx, "spd-teststadt", "SPD Teststadt")
	fx.CreateUser(ctx, "mitglied@teststadt.de", "pw", "spd-teststadt")
	fx.CreateMeeting(ctx, "meetings", "Vorstandssitzung", "spd-teststadt",
		store.FormatISO(now.Add(6*time.Hour)))
	fx.CreateMeeting(ctx, "fraction_meetings", "Fraktionssitzung", "spd-teststadt",
		store.FormatISO(now.Add(8*time.Hour)))

	w.RunOnce(ctx)

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want one per collection", len(sender.sent))
	}
}

func TestRunOnceSendFailureLeavesMeetingUnmarked(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sender := &fakeSender{fail: true}
	w, fx := newTestReminder(t, sender, now)

	fx.CreateOrganization(ctx, "spd-teststadt", "SPD Teststadt")
	fx.CreateUser(ctx, "mitglied@teststadt.de", "pw", "spd-teststadt")
	m := fx.CreateMeeting(ctx, "meetings", "Vorstandssitzung", "spd-teststadt",
		store.FormatISO(now.Add(12*time.Hour)))

	w.RunOnce(ctx)

	var updated models.Meeting
	if err := fx.DB().Collection("meetings").FindOne(ctx, bson.M{"_id": m.ID}).Decode(&updated); err != nil {
		t.Fatalf("reload meeting: %v", err)
	}
	if updated.ReminderSent {
		t.Error("failed send must leave reminder_sent unset for the next pass")
	}

	// Retry after the transport recovers.
	sender.fail = false
	w.RunOnce(ctx)
	if len(sender.sent) != 1 {
		t.Fatalf("recovered pass sent %d emails, want 1", len(sender.sent))
	}
}

func TestRunOnceReachesAllMembers(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sender := &fakeSender{}
	w, fx := newTestReminder(t, sender, now)

	fx.CreateOrganization(ctx, "spd-teststadt", "SPD Teststadt")
	members := make([]any, 0, 120)
	for i := 0; i < 120; i++ {
		members = append(members, bson.M{
			"email":        fmt.Sprintf("mitglied%03d@teststadt.de", i),
			"organization": "spd-teststadt",
			"created_at":   store.NowISO(),
		})
	}
	if _, err := fx.DB().Collection("users").InsertMany(ctx, members); err != nil {
		t.Fatalf("seed members: %v", err)
	}
	fx.CreateContact(ctx, "Erika Muster", "erika@example.com", "spd-teststadt")
	fx.CreateMeeting(ctx, "meetings", "Mitgliederversammlung", "spd-teststadt",
		store.FormatISO(now.Add(12*time.Hour)))

	w.RunOnce(ctx)

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if got := len(sender.sent[0].To); got != 121 {
		t.Fatalf("recipients = %d, want every member and contact", got)
	}
}

func TestRestartAfterStop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	w := workers.NewReminder(
		meetingstore.New(db), userstore.New(db), orgstore.New(db), documents.New(db),
		&fakeSender{}, zap.NewNop(), time.Hour, 24*time.Hour,
	)
	w.Start()
	w.Stop()
	w.Start()
	w.Stop()
}

func TestStartIsIdempotentAndStops(t *testing.T) {
	db := testutil.SetupTestDB(t)
	w := workers.NewReminder(
		meetingstore.New(db), userstore.New(db), orgstore.New(db), documents.New(db),
		&fakeSender{}, zap.NewNop(), time.Hour, 24*time.Hour,
	)
	w.Start()
	w.Start() // duplicate startup hook must not spawn a second loop
	w.Stop()
	w.Stop() // stopping twice is a no-op
}
