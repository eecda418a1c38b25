package seed

import (
	"context"
	"time"

	"portal/internal/app"
	"portal/internal/logger"
	. "portal/internal/models"
)

func stringPtr(s string) *string {
	return &s
}

func date(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

// Seed loads sample records for local development. It does nothing when any
// record already exists, so running it twice is harmless.
func Seed(ctx context.Context, app *app.App, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	for _, kind := range Kinds {
		counts, err := app.ReportRepo.CountByStatus(ctx, kind)
		if err != nil {
			return log.Err("failed to count existing records", err, "kind", kind)
		}
		for _, n := range counts {
			if n > 0 {
				log.Info("Sample data already present, skipping", "kind", kind)
				return nil
			}
		}
	}

	pensions := []struct {
		record PensionApplication
		status Status
	}{
		{
			record: PensionApplication{
				ApplicantName:    "Rajesh Kumar",
				EmployeeID:       "EMP001",
				DateOfBirth:      date("1960-05-15"),
				DateOfJoining:    date("1985-03-01"),
				DateOfRetirement: date("2020-05-31"),
				Designation:      "Senior Accountant",
				Department:       "Finance",
				BasicPay:         45000,
				ContactNumber:    "+919876543210",
				Email:            "rajesh.kumar@example.com",
				Address:          Address{Street: "123 Main Street", City: "Mumbai", State: "Maharashtra", PostalCode: "400001"},
				BankDetails:      BankDetails{Name: "State Bank of India", AccountNumber: "1234567890", RoutingCode: "SBIN0001234"},
			},
			status: StatusPending,
		},
		{
			record: PensionApplication{
				ApplicantName:    "Priya Sharma",
				EmployeeID:       "EMP002",
				DateOfBirth:      date("1962-08-20"),
				DateOfJoining:    date("1988-07-15"),
				DateOfRetirement: date("2022-08-31"),
				Designation:      "Deputy Accountant",
				Department:       "Audit",
				BasicPay:         52000,
				ContactNumber:    "+919876543211",
				Email:            "priya.sharma@example.com",
				Address:          Address{Street: "456 Park Avenue", City: "Mumbai", State: "Maharashtra", PostalCode: "400002"},
				BankDetails:      BankDetails{Name: "HDFC Bank", AccountNumber: "0987654321", RoutingCode: "HDFC0000987"},
			},
			status: StatusApproved,
		},
	}

	for _, p := range pensions {
		record := p.record
		if err := app.PensionRepo.Create(ctx, &record); err != nil {
			log.Er("failed to create pension application", err, "employeeId", record.EmployeeID)
			continue
		}
		transition(ctx, app, log, KindPension, record.ID, p.status)
	}

	family := FamilyPensionApplication{
		DeceasedEmployeeName: "Amit Patel",
		DeceasedEmployeeID:   "EMP003",
		DateOfDeath:          date("2023-01-15"),
		ApplicantName:        "Sunita Patel",
		Relationship:         "spouse",
		DateOfBirth:          date("1965-12-10"),
		MaritalStatus:        "widowed",
		ContactNumber:        "+919876543212",
		Email:                "sunita.patel@example.com",
		Address:              Address{Street: "789 Lake Road", City: "Mumbai", State: "Maharashtra", PostalCode: "400003"},
		BankDetails:          BankDetails{Name: "ICICI Bank", AccountNumber: "1122334455", RoutingCode: "ICIC0001122"},
	}
	if err := app.FamilyPensionRepo.Create(ctx, &family); err != nil {
		log.Er("failed to create family pension application", err, "deceasedEmployeeId", family.DeceasedEmployeeID)
	}

	contacts := []struct {
		record ContactMessage
		status Status
	}{
		{
			record: ContactMessage{
				Name:    "Vikram Singh",
				Email:   "vikram.singh@example.com",
				Phone:   "+919876543213",
				Subject: "Pension Application Status",
				Message: "I submitted my pension application last month. Can you please provide an update on the status?",
			},
			status: StatusUnread,
		},
		{
			record: ContactMessage{
				Name:    "Meera Desai",
				Email:   "meera.desai@example.com",
				Phone:   "+919876543214",
				Subject: "Family Pension Query",
				Message: "I need information about the documents required for family pension application.",
			},
			status: StatusRead,
		},
	}

	for _, c := range contacts {
		record := c.record
		if err := app.ContactRepo.Create(ctx, &record); err != nil {
			log.Er("failed to create contact message", err, "subject", record.Subject)
			continue
		}
		transition(ctx, app, log, KindContact, record.ID, c.status)
	}

	log.Info("Sample data created")
	return nil
}

func transition(ctx context.Context, app *app.App, log logger.Logger, kind Kind, id string, status Status) {
	if status == kind.DefaultStatus() {
		return
	}
	req := StatusUpdateRequest{Status: string(status), Notes: stringPtr("Seeded")}
	if _, err := app.WorkflowController.Transition(ctx, kind, id, req); err != nil {
		log.Er("failed to set sample status", err, "kind", kind, "id", id, "status", status)
	}
}
