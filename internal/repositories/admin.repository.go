package repositories

import (
	"context"
	"errors"
	"time"

	"portal/internal/apperrors"
	"portal/internal/database"
	"portal/internal/logger"
	. "portal/internal/models"
	"portal/internal/services"

	"gorm.io/gorm"
)

type AdminRepository interface {
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	Create(ctx context.Context, admin *Admin) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

type adminRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAdmin(db database.DB) AdminRepository {
	return &adminRepository{
		db:  db,
		log: logger.New("adminRepository"),
	}
}

func (r *adminRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*Admin, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *adminRepository) first(ctx context.Context, query string, arg string) (*Admin, error) {
	var admin Admin
	if err := r.getDB(ctx).First(&admin, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Admin not found")
		}
		return nil, r.log.Function("first").Err("failed to get admin", err, "query", query)
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *Admin) error {
	log := r.log.Function("Create")

	if admin.Role == "" {
		admin.Role = RoleAdmin
	}

	if err := r.getDB(ctx).Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.CodeConflict, "Admin already exists", err)
		}
		return log.Err("failed to create admin", err, "username", admin.Username)
	}

	return nil
}

func (r *adminRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	log := r.log.Function("UpdatePasswordHash")

	result := r.getDB(ctx).Model(&Admin{BaseUUIDModel: BaseUUIDModel{ID: id}}).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return log.Err("failed to update password", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Admin not found")
	}

	return nil
}
