package repositories

import (
	"context"
	"time"

	"portal/internal/database"
	"portal/internal/logger"
	. "portal/internal/models"
	"portal/internal/services"

	"gorm.io/gorm"
)

// ReportRepository answers the aggregate questions behind the dashboard and
// charts. Callers depend only on this interface, so the table scans here can
// be swapped for counters without touching them.
type ReportRepository interface {
	CountByStatus(ctx context.Context, kind Kind) (map[Status]int64, error)
	SubmissionTimes(ctx context.Context, kind Kind, since time.Time) ([]time.Time, error)
}

var kindTables = map[Kind]string{
	KindPension:       PensionApplication{}.TableName(),
	KindFamilyPension: FamilyPensionApplication{}.TableName(),
	KindContact:       ContactMessage{}.TableName(),
}

type reportRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReport(db database.DB) ReportRepository {
	return &reportRepository{
		db:  db,
		log: logger.New("reportRepository"),
	}
}

func (r *reportRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

type statusCount struct {
	Status Status
	Count  int64
}

// CountByStatus groups the kind's records by status. Statuses with no
// records are absent from the map.
func (r *reportRepository) CountByStatus(ctx context.Context, kind Kind) (map[Status]int64, error) {
	log := r.log.Function("CountByStatus")

	table, ok := kindTables[kind]
	if !ok {
		return nil, log.Error("unknown record kind", "kind", kind)
	}

	var rows []statusCount
	if err := r.getDB(ctx).Table(table).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to count records by status", err, "kind", kind)
	}

	counts := make(map[Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SubmissionTimes returns the submission instants at or after since, in UTC.
func (r *reportRepository) SubmissionTimes(ctx context.Context, kind Kind, since time.Time) ([]time.Time, error) {
	log := r.log.Function("SubmissionTimes")

	table, ok := kindTables[kind]
	if !ok {
		return nil, log.Error("unknown record kind", "kind", kind)
	}

	var times []time.Time
	if err := r.getDB(ctx).Table(table).
		Where("submitted_at >= ?", since.UTC()).
		Order("submitted_at ASC").
		Pluck("submitted_at", &times).Error; err != nil {
		return nil, log.Err("failed to load submission times", err, "kind", kind)
	}

	for i := range times {
		times[i] = times[i].UTC()
	}
	return times, nil
}
