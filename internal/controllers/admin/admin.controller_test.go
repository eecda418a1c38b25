package adminController

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"portal/config"
	"portal/internal/apperrors"
	"portal/internal/database"
	"portal/internal/metrics"
	. "portal/internal/models"
	"portal/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db         database.DB
	controller *AdminController
	pensions   repositories.PensionRepository
	families   repositories.FamilyPensionRepository
	contacts   repositories.ContactRepository
}

func newFixture(t *testing.T, location *time.Location) *fixture {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDbPath: filepath.Join(t.TempDir(), "admin.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Migrate()
	require.NoError(t, err)

	f := &fixture{
		db:       db,
		pensions: repositories.NewPension(db),
		families: repositories.NewFamilyPension(db),
		contacts: repositories.NewContact(db),
	}
	f.controller = New(f.pensions, f.families, f.contacts, repositories.NewReport(db), metrics.New(), location)
	return f
}

func (f *fixture) backdate(t *testing.T, table, id string, at time.Time) {
	t.Helper()
	require.NoError(t, f.db.SQL.Table(table).Where("id = ?", id).Update("submitted_at", at.UTC()).Error)
}

func (f *fixture) addPension(t *testing.T, employeeID, name string, at time.Time) *PensionApplication {
	t.Helper()
	app := &PensionApplication{
		ApplicantName:    name,
		EmployeeID:       employeeID,
		DateOfBirth:      time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		DateOfJoining:    time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
		DateOfRetirement: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Designation:      "Clerk",
		Department:       "Revenue",
		Email:            "p@example.com",
	}
	require.NoError(t, f.pensions.Create(context.Background(), app))
	f.backdate(t, "pension_applications", app.ID, at)
	app.SubmittedAt = at
	return app
}

func (f *fixture) addFamily(t *testing.T, deceasedID, name string, at time.Time) *FamilyPensionApplication {
	t.Helper()
	app := &FamilyPensionApplication{
		DeceasedEmployeeName: "Deceased " + deceasedID,
		DeceasedEmployeeID:   deceasedID,
		DateOfDeath:          time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		ApplicantName:        name,
		Relationship:         "spouse",
		DateOfBirth:          time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC),
		MaritalStatus:        "widowed",
		Email:                "f@example.com",
	}
	require.NoError(t, f.families.Create(context.Background(), app))
	f.backdate(t, "family_pension_applications", app.ID, at)
	return app
}

func (f *fixture) addContact(t *testing.T, name, subject string, at time.Time) *ContactMessage {
	t.Helper()
	msg := &ContactMessage{Name: name, Email: "c@example.com", Phone: "1", Subject: subject, Message: "m"}
	require.NoError(t, f.contacts.Create(context.Background(), msg))
	f.backdate(t, "contact_messages", msg.ID, at)
	return msg
}

func TestSummaryCounts_ZeroFilled(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	summary, err := f.controller.SummaryCounts(ctx, KindPension)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Equal(t, map[Status]int64{StatusPending: 0, StatusApproved: 0, StatusRejected: 0}, summary.ByStatus)

	f.addContact(t, "A", "s", time.Now())
	contact, err := f.controller.SummaryCounts(ctx, KindContact)
	require.NoError(t, err)
	assert.Equal(t, int64(1), contact.Total)
	assert.Equal(t, int64(1), contact.ByStatus[StatusUnread])
	assert.Equal(t, int64(0), contact.ByStatus[StatusReplied])

	raw, err := json.Marshal(contact)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":1,"unread":1,"read":0,"replied":0}`, string(raw))
}

func TestSummaryCounts_TotalEqualsSumOfStatuses(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	now := time.Now()
	a := f.addPension(t, "EMP001", "A", now)
	f.addPension(t, "EMP002", "B", now)
	c := f.addPension(t, "EMP003", "C", now)
	_, err := f.pensions.UpdateStatus(ctx, a.ID, StatusApproved, nil)
	require.NoError(t, err)
	_, err = f.pensions.UpdateStatus(ctx, c.ID, StatusRejected, nil)
	require.NoError(t, err)

	summary, err := f.controller.SummaryCounts(ctx, KindPension)
	require.NoError(t, err)

	var sum int64
	for _, n := range summary.ByStatus {
		sum += n
	}
	assert.Equal(t, summary.Total, sum)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(1), summary.ByStatus[StatusPending])
}

func TestRecent(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		f.addContact(t, string(rune('A'+i)), "s", base.Add(time.Duration(i)*time.Hour))
	}

	recent, err := f.controller.Recent(ctx, KindContact, 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, "G", recent[0].DisplayName())
	assert.Equal(t, "C", recent[4].DisplayName())

	three, err := f.controller.Recent(ctx, KindContact, 3)
	require.NoError(t, err)
	assert.Len(t, three, 3)

	none, err := f.controller.Recent(ctx, KindPension, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMonthlySeries(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	f.addPension(t, "EMP001", "Jan", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	f.addPension(t, "EMP002", "Mar-1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	f.addPension(t, "EMP003", "Mar-2", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	f.addPension(t, "EMP004", "Too old", time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC))

	series, err := f.controller.MonthlySeries(ctx, KindPension, 6, now)
	require.NoError(t, err)
	assert.Equal(t, []MonthBucket{
		{Year: 2023, Month: 10, Count: 0},
		{Year: 2023, Month: 11, Count: 0},
		{Year: 2023, Month: 12, Count: 0},
		{Year: 2024, Month: 1, Count: 1},
		{Year: 2024, Month: 2, Count: 0},
		{Year: 2024, Month: 3, Count: 2},
	}, series)

	defaulted, err := f.controller.MonthlySeries(ctx, KindPension, 0, now)
	require.NoError(t, err)
	assert.Len(t, defaulted, DefaultMonths)

	single, err := f.controller.MonthlySeries(ctx, KindFamilyPension, 1, now)
	require.NoError(t, err)
	assert.Equal(t, []MonthBucket{{Year: 2024, Month: 3, Count: 0}}, single)
}

func TestMonthlySeries_UsesReportingTimezone(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	f := newFixture(t, kolkata)
	ctx := context.Background()

	// 20:00 UTC on Jan 31 is Feb 1 in IST.
	f.addPension(t, "EMP001", "Edge", time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC))

	series, err := f.controller.MonthlySeries(ctx, KindPension, 2, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []MonthBucket{
		{Year: 2024, Month: 1, Count: 0},
		{Year: 2024, Month: 2, Count: 1},
	}, series)
}

func TestMonthlySeries_CrossesYearBoundary(t *testing.T) {
	f := newFixture(t, time.UTC)

	series, err := f.controller.MonthlySeries(context.Background(), KindContact, 3,
		time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, MonthBucket{Year: 2024, Month: 11}, series[0])
	assert.Equal(t, MonthBucket{Year: 2025, Month: 1}, series[2])
}

func TestStatusDistribution(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.addContact(t, "A", "s", time.Now())

	dist, err := f.controller.StatusDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []StatusCount{
		{Status: StatusPending}, {Status: StatusApproved}, {Status: StatusRejected},
	}, dist.Pension)
	assert.Equal(t, []StatusCount{
		{Status: StatusUnread, Count: 1}, {Status: StatusRead}, {Status: StatusReplied},
	}, dist.Contact)
}

func TestListContacts(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	f.addContact(t, "Asha", "Pension query", time.Now().Add(-time.Hour))
	read := f.addContact(t, "Vikram", "Bank change", time.Now())
	_, err := f.contacts.UpdateStatus(ctx, read.ID, StatusRead, nil)
	require.NoError(t, err)

	unread, err := f.controller.ListContacts(ctx, ContactFilter{Status: "unread"})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Asha", unread[0].Name)

	all, err := f.controller.ListContacts(ctx, ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.controller.ListContacts(ctx, ContactFilter{Status: "archived"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	app := f.addPension(t, "EMP001", "A", time.Now())
	f.addFamily(t, "EMP077", "B", time.Now())
	f.addContact(t, "C", "s", time.Now())

	_, err := f.pensions.UpdateStatus(ctx, app.ID, StatusApproved, nil)
	require.NoError(t, err)

	dashboard, err := f.controller.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), dashboard.Statistics.Pension.Total)
	assert.Equal(t, int64(1), dashboard.Statistics.Pension.ByStatus[StatusApproved])
	assert.Equal(t, int64(0), dashboard.Statistics.Pension.ByStatus[StatusPending])
	assert.Equal(t, int64(1), dashboard.Statistics.FamilyPension.ByStatus[StatusPending])
	assert.Equal(t, int64(1), dashboard.Statistics.Contact.ByStatus[StatusUnread])
	assert.Len(t, dashboard.Recent.PensionApplications, 1)
	assert.Len(t, dashboard.Recent.FamilyPensionApplications, 1)
	assert.Len(t, dashboard.Recent.ContactMessages, 1)
}

func TestApplicationsOverTime(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.controller.now = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }
	f.addFamily(t, "EMP077", "B", time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))

	chart, err := f.controller.ApplicationsOverTime(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, chart.PensionApplications, DefaultMonths)
	require.Len(t, chart.FamilyPensionApplications, DefaultMonths)
	assert.Equal(t, MonthBucket{Year: 2024, Month: 2, Count: 1}, chart.FamilyPensionApplications[4])
}

func TestExport(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	f.addContact(t, "Asha, R", "s", time.Date(2024, 3, 3, 23, 30, 0, 0, time.UTC))
	f.addFamily(t, "EMP077", "Sunita", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	f.addPension(t, "EMP001", "Older", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f.addPension(t, "EMP002", "Newer", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	rows, err := f.controller.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ExportRow{
		{Kind: KindPension, Name: "Newer", Identifier: "EMP002", Status: StatusPending, SubmittedDate: "2024-02-01"},
		{Kind: KindPension, Name: "Older", Identifier: "EMP001", Status: StatusPending, SubmittedDate: "2024-01-01"},
		{Kind: KindFamilyPension, Name: "Sunita", Identifier: "EMP077", Status: StatusPending, SubmittedDate: "2024-03-02"},
		{Kind: KindContact, Name: "Asha, R", Identifier: "N/A", Status: StatusUnread, SubmittedDate: "2024-03-03"},
	}, rows)

	var buf bytes.Buffer
	require.NoError(t, f.controller.WriteExport(ctx, &buf))
	assert.Equal(t, "Application Type,Name,Employee ID,Status,Submitted Date\n"+
		"Pension,Newer,EMP002,pending,2024-02-01\n"+
		"Pension,Older,EMP001,pending,2024-01-01\n"+
		"Family Pension,Sunita,EMP077,pending,2024-03-02\n"+
		"Contact,\"Asha, R\",N/A,unread,2024-03-03\n", buf.String())
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "pension-data-2024-03-15.csv",
		ExportFilename(time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC)))
}
