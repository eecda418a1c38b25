package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portal/internal/apperrors"
	"portal/internal/database"
	"portal/internal/logger"
	. "portal/internal/models"
	"portal/internal/services"

	"gorm.io/gorm"
)

const (
	RECORD_CACHE_EXPIRY = 24 * time.Hour
)

type ListFilter struct {
	Status Status
	Search string
	Limit  int
}

// RecordRepository stores one submission kind. Records are never deleted;
// after Create only status and notes change, through UpdateStatus.
type RecordRepository[R Record] interface {
	Create(ctx context.Context, record R) error
	GetByID(ctx context.Context, id string) (R, error)
	List(ctx context.Context, filter ListFilter) ([]R, error)
	UpdateStatus(ctx context.Context, id string, status Status, notes *string) (R, error)
}

type (
	PensionRepository       = RecordRepository[*PensionApplication]
	FamilyPensionRepository = RecordRepository[*FamilyPensionApplication]
	ContactRepository       = RecordRepository[*ContactMessage]
)

func NewPension(db database.DB) PensionRepository {
	return newRecordRepository[PensionApplication](db, recordOptions{
		notFound: "Application not found",
		conflict: "An application for this employee ID already exists",
	})
}

func NewFamilyPension(db database.DB) FamilyPensionRepository {
	return newRecordRepository[FamilyPensionApplication](db, recordOptions{
		notFound: "Application not found",
		conflict: "Application already exists",
	})
}

func NewContact(db database.DB) ContactRepository {
	return newRecordRepository[ContactMessage](db, recordOptions{
		notFound:      "Contact message not found",
		conflict:      "Contact message already exists",
		searchColumns: []string{"name", "email", "subject"},
	})
}

type storable[T any] interface {
	*T
	Record
	Base() *Submission
}

type recordOptions struct {
	notFound      string
	conflict      string
	searchColumns []string
}

type recordRepository[T any, P storable[T]] struct {
	db   database.DB
	kind Kind
	opts recordOptions
	log  logger.Logger
}

func newRecordRepository[T any, P storable[T]](db database.DB, opts recordOptions) *recordRepository[T, P] {
	kind := P(new(T)).RecordKind()
	return &recordRepository[T, P]{
		db:   db,
		kind: kind,
		opts: opts,
		log:  logger.New("recordRepository").With("kind", kind),
	}
}

func (r *recordRepository[T, P]) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// Create stores a new record. The id, submission time and initial status are
// always assigned here; whatever the caller put in them is discarded.
func (r *recordRepository[T, P]) Create(ctx context.Context, record P) error {
	log := r.log.Function("Create")

	base := record.Base()
	base.ID = ""
	base.Status = r.kind.DefaultStatus()
	base.Notes = nil
	base.SubmittedAt = time.Time{}

	if err := r.getDB(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.CodeConflict, r.opts.conflict, err)
		}
		return log.Err("failed to create record", err)
	}

	r.addToCache(ctx, record)

	return nil
}

func (r *recordRepository[T, P]) GetByID(ctx context.Context, id string) (P, error) {
	log := r.log.Function("GetByID")

	record := P(new(T))
	if r.cacheable(ctx) {
		found, err := database.NewCacheBuilder(r.db.Cache.Records, r.cacheKey(id)).
			WithContext(ctx).
			Get(record)
		if err != nil {
			log.Warn("failed to read record from cache", "id", id, "error", err)
		}
		if found {
			return record, nil
		}
		record = P(new(T))
	}

	if err := r.getDB(ctx).First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(r.opts.notFound)
		}
		return nil, log.Err("failed to get record by id", err, "id", id)
	}

	r.addToCache(ctx, record)

	return record, nil
}

// List returns records newest first. Ids are time-ordered, so equal
// submission times fall back to insertion order.
func (r *recordRepository[T, P]) List(ctx context.Context, filter ListFilter) ([]P, error) {
	log := r.log.Function("List")

	query := r.getDB(ctx).Model(P(new(T)))

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if search := strings.TrimSpace(filter.Search); search != "" && len(r.opts.searchColumns) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		clauses := make([]string, 0, len(r.opts.searchColumns))
		args := make([]any, 0, len(r.opts.searchColumns))
		for _, column := range r.opts.searchColumns {
			clauses = append(clauses, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column))
			args = append(args, pattern)
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	query = query.Order("submitted_at DESC").Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []P
	if err := query.Find(&records).Error; err != nil {
		return nil, log.Err("failed to list records", err, "status", filter.Status)
	}

	return records, nil
}

// UpdateStatus writes status and, when notes is non-nil, notes. The status
// must already be legal for the kind; the workflow engine checks that.
func (r *recordRepository[T, P]) UpdateStatus(ctx context.Context, id string, status Status, notes *string) (P, error) {
	log := r.log.Function("UpdateStatus")

	record := P(new(T))
	if err := r.getDB(ctx).First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(r.opts.notFound)
		}
		return nil, log.Err("failed to load record", err, "id", id)
	}

	now := time.Now().UTC()
	updates := map[string]any{"status": status, "updated_at": now}
	if notes != nil {
		updates["notes"] = *notes
	}

	if err := r.getDB(ctx).Model(record).Updates(updates).Error; err != nil {
		return nil, log.Err("failed to update record status", err, "id", id, "status", status)
	}

	base := record.Base()
	base.Status = status
	base.UpdatedAt = now
	if notes != nil {
		base.Notes = notes
	}

	if r.cacheable(ctx) {
		if err := database.NewCacheBuilder(r.db.Cache.Records, r.cacheKey(id)).WithContext(ctx).Delete(); err != nil {
			log.Warn("failed to drop record from cache", "id", id, "error", err)
		}
	}

	return record, nil
}

// cacheable is false inside a transaction: a rolled back write must never
// reach the cache.
func (r *recordRepository[T, P]) cacheable(ctx context.Context) bool {
	if r.db.Cache.Records == nil {
		return false
	}
	_, inTx := services.GetTransaction(ctx)
	return !inTx
}

func (r *recordRepository[T, P]) cacheKey(id string) string {
	return services.RecordCacheKey(r.kind, id)
}

func (r *recordRepository[T, P]) addToCache(ctx context.Context, record P) {
	if !r.cacheable(ctx) {
		return
	}
	if err := database.NewCacheBuilder(r.db.Cache.Records, r.cacheKey(record.RecordID())).
		WithStruct(record).
		WithTTL(RECORD_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("addToCache").Warn("failed to add record to cache", "id", record.RecordID(), "error", err)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
