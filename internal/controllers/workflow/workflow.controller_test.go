package workflowController

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"portal/config"
	"portal/internal/apperrors"
	"portal/internal/database"
	"portal/internal/events"
	"portal/internal/metrics"
	. "portal/internal/models"
	"portal/internal/repositories"
	"portal/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	changed []Record
}

func (n *recordingNotifier) SubmissionReceived(Record) {}

func (n *recordingNotifier) StatusChanged(record Record, _ *string) {
	n.changed = append(n.changed, record)
}

func (n *recordingNotifier) Close() {}

type fixture struct {
	controller *WorkflowController
	pensions   repositories.PensionRepository
	contacts   repositories.ContactRepository
	notifier   *recordingNotifier
	published  []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDbPath: filepath.Join(t.TempDir(), "workflow.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Migrate()
	require.NoError(t, err)

	bus := events.New(nil)
	f := &fixture{
		pensions: repositories.NewPension(db),
		contacts: repositories.NewContact(db),
		notifier: &recordingNotifier{},
	}
	bus.Subscribe(events.TypeStatusChanged, func(e events.Event) {
		f.published = append(f.published, e)
	})

	f.controller = New(
		f.pensions,
		repositories.NewFamilyPension(db),
		f.contacts,
		services.NewTransactionService(db),
		services.NewCacheInvalidationService(bus, db.Cache.Records),
		bus,
		metrics.New(),
		f.notifier,
	)
	return f
}

func (f *fixture) pension(t *testing.T) *PensionApplication {
	t.Helper()
	app := &PensionApplication{
		ApplicantName:    "Ramesh",
		EmployeeID:       "EMP001",
		DateOfBirth:      time.Date(1960, 5, 15, 0, 0, 0, 0, time.UTC),
		DateOfJoining:    time.Date(1985, 3, 1, 0, 0, 0, 0, time.UTC),
		DateOfRetirement: time.Date(2020, 5, 31, 0, 0, 0, 0, time.UTC),
		Designation:      "Clerk",
		Department:       "Revenue",
		Email:            "r@example.com",
	}
	require.NoError(t, f.pensions.Create(context.Background(), app))
	return app
}

func strPtr(s string) *string {
	return &s
}

func TestTransition_Approve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.pension(t)

	updated, err := f.controller.Transition(ctx, KindPension, app.ID, StatusUpdateRequest{
		Status: "approved",
		Notes:  strPtr("Verified"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.CurrentStatus())

	stored, err := f.pensions.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
	require.NotNil(t, stored.Notes)
	assert.Equal(t, "Verified", *stored.Notes)
	assert.WithinDuration(t, app.SubmittedAt, stored.SubmittedAt, time.Millisecond)

	require.Len(t, f.published, 1)
	assert.Equal(t, "approved", f.published[0].Status)
	assert.Len(t, f.notifier.changed, 1)
}

func TestTransition_AnyLegalStatusFollowsAnyOther(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.pension(t)

	for _, status := range []string{"rejected", "approved", "pending", "approved"} {
		updated, err := f.controller.Transition(ctx, KindPension, app.ID, StatusUpdateRequest{Status: status})
		require.NoError(t, err, status)
		assert.Equal(t, Status(status), updated.CurrentStatus())
	}
}

func TestTransition_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.pension(t)

	first, err := f.controller.Transition(ctx, KindPension, app.ID, StatusUpdateRequest{Status: "approved"})
	require.NoError(t, err)
	second, err := f.controller.Transition(ctx, KindPension, app.ID, StatusUpdateRequest{Status: "approved"})
	require.NoError(t, err)

	assert.Equal(t, first.CurrentStatus(), second.CurrentStatus())
	assert.Equal(t, first.RecordID(), second.RecordID())
}

func TestTransition_InvalidStatusLeavesRecordUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.pension(t)

	tests := []string{"archived", "", "unread", "APPROVED"}
	for _, status := range tests {
		t.Run(status, func(t *testing.T) {
			_, err := f.controller.Transition(ctx, KindPension, app.ID, StatusUpdateRequest{Status: status})
			require.ErrorIs(t, err, apperrors.ErrInvalidStatus)
			assert.Equal(t, "Invalid status", err.(*apperrors.Error).Message)

			stored, err := f.pensions.GetByID(ctx, app.ID)
			require.NoError(t, err)
			assert.Equal(t, StatusPending, stored.Status)
		})
	}
	assert.Empty(t, f.published)
}

func TestTransition_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.controller.Transition(context.Background(), KindPension, "missing", StatusUpdateRequest{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, f.published)
}

func TestTransition_Contact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg := &ContactMessage{Name: "A", Email: "a@example.com", Phone: "1", Subject: "s", Message: "m"}
	require.NoError(t, f.contacts.Create(ctx, msg))

	updated, err := f.controller.Transition(ctx, KindContact, msg.ID, StatusUpdateRequest{Status: "replied", Notes: strPtr("Called back")})
	require.NoError(t, err)
	assert.Equal(t, StatusReplied, updated.CurrentStatus())

	_, err = f.controller.Transition(ctx, KindContact, msg.ID, StatusUpdateRequest{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}
