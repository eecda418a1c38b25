package adminController

import (
	"context"
	"fmt"
	"io"
	"time"

	"portal/internal/apperrors"
	"portal/internal/logger"
	"portal/internal/metrics"
	. "portal/internal/models"
	"portal/internal/repositories"
	"portal/internal/utils"
)

const (
	DefaultRecentLimit = 5
	DefaultMonths      = 6
)

var ExportHeaders = []string{"Application Type", "Name", "Employee ID", "Status", "Submitted Date"}

type AdminController struct {
	pensionRepo repositories.PensionRepository
	familyRepo  repositories.FamilyPensionRepository
	contactRepo repositories.ContactRepository
	reportRepo  repositories.ReportRepository
	metrics     *metrics.Metrics
	location    *time.Location
	now         func() time.Time
	log         logger.Logger
}

func New(
	pensionRepo repositories.PensionRepository,
	familyRepo repositories.FamilyPensionRepository,
	contactRepo repositories.ContactRepository,
	reportRepo repositories.ReportRepository,
	metrics *metrics.Metrics,
	location *time.Location,
) *AdminController {
	if location == nil {
		location = time.Local
	}
	return &AdminController{
		pensionRepo: pensionRepo,
		familyRepo:  familyRepo,
		contactRepo: contactRepo,
		reportRepo:  reportRepo,
		metrics:     metrics,
		location:    location,
		now:         time.Now,
		log:         logger.New("AdminController"),
	}
}

func (c *AdminController) Now() time.Time {
	return c.now()
}

func (c *AdminController) ListPension(ctx context.Context) ([]*PensionApplication, error) {
	return c.pensionRepo.List(ctx, repositories.ListFilter{})
}

func (c *AdminController) ListFamilyPension(ctx context.Context) ([]*FamilyPensionApplication, error) {
	return c.familyRepo.List(ctx, repositories.ListFilter{})
}

// ListContacts applies the optional status and search filters. An unknown
// status is an error rather than an empty result.
func (c *AdminController) ListContacts(ctx context.Context, filter ContactFilter) ([]*ContactMessage, error) {
	listFilter := repositories.ListFilter{Search: filter.Search}

	if filter.Status != "" {
		status, err := KindContact.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		listFilter.Status = status
	}

	return c.contactRepo.List(ctx, listFilter)
}

// Recent returns up to n of the kind's newest records; n <= 0 means the
// default of five.
func (c *AdminController) Recent(ctx context.Context, kind Kind, n int) ([]Record, error) {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	filter := repositories.ListFilter{Limit: n}

	switch kind {
	case KindPension:
		return records[*PensionApplication](c.pensionRepo.List(ctx, filter))
	case KindFamilyPension:
		return records[*FamilyPensionApplication](c.familyRepo.List(ctx, filter))
	case KindContact:
		return records[*ContactMessage](c.contactRepo.List(ctx, filter))
	default:
		return nil, apperrors.NotFound("Unknown record kind")
	}
}

func records[R Record](list []R, err error) ([]Record, error) {
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(list))
	for i, r := range list {
		out[i] = r
	}
	return out, nil
}

type ExportRow struct {
	Kind          Kind
	Name          string
	Identifier    string
	Status        Status
	SubmittedDate string
}

func (r ExportRow) CSVValues() []string {
	return []string{r.Kind.Label(), r.Name, r.Identifier, string(r.Status), r.SubmittedDate}
}

func exportRow(record Record) ExportRow {
	return ExportRow{
		Kind:          record.RecordKind(),
		Name:          record.DisplayName(),
		Identifier:    record.Identifier(),
		Status:        record.CurrentStatus(),
		SubmittedDate: record.SubmittedTime().UTC().Format("2006-01-02"),
	}
}

// Export flattens every record: pensions, then family pensions, then
// contact messages, each newest first.
func (c *AdminController) Export(ctx context.Context) ([]ExportRow, error) {
	log := c.log.Function("Export")

	pensions, err := c.pensionRepo.List(ctx, repositories.ListFilter{})
	if err != nil {
		return nil, log.Err("failed to load pension applications", err)
	}
	families, err := c.familyRepo.List(ctx, repositories.ListFilter{})
	if err != nil {
		return nil, log.Err("failed to load family pension applications", err)
	}
	contacts, err := c.contactRepo.List(ctx, repositories.ListFilter{})
	if err != nil {
		return nil, log.Err("failed to load contact messages", err)
	}

	rows := make([]ExportRow, 0, len(pensions)+len(families)+len(contacts))
	for _, r := range pensions {
		rows = append(rows, exportRow(r))
	}
	for _, r := range families {
		rows = append(rows, exportRow(r))
	}
	for _, r := range contacts {
		rows = append(rows, exportRow(r))
	}

	return rows, nil
}

func (c *AdminController) WriteExport(ctx context.Context, w io.Writer) error {
	rows, err := c.Export(ctx)
	if err != nil {
		return err
	}

	csvRows := make([]utils.CSVRow, len(rows))
	for i, row := range rows {
		csvRows[i] = row
	}

	if err := utils.NewCSVGenerator(ExportHeaders...).Write(w, csvRows); err != nil {
		return c.log.Function("WriteExport").Err("failed to write export", err)
	}

	c.metrics.IncrementExport()
	return nil
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("pension-data-%s.csv", now.UTC().Format("2006-01-02"))
}
