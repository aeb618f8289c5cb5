package repository

import (
	"context"
	"errors"
	"time"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"gorm.io/gorm"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

type AdminsRepository struct {
	db *gorm.DB
}

func NewAdminsRepository(db *gorm.DB) *AdminsRepository {
	return &AdminsRepository{db: db}
}

func (x *AdminsRepository) GetAdminByUsername(ctx context.Context, logger *tracing.Logger, username string) (*entities.Admin, error) {
	defer tracing.ProfilePoint(logger, "Admins get admin completed", "repository.admins.get.admin", tracing.AdminName, username)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	var admin entities.Admin
	err := x.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		logger.E("Failed to get admin", tracing.InnerError, err)
		return nil, err
	}

	return &admin, nil
}

func (x *AdminsRepository) CreateAdmin(ctx context.Context, logger *tracing.Logger, admin *entities.Admin) error {
	defer tracing.ProfilePoint(logger, "Admins create admin completed", "repository.admins.create.admin", tracing.AdminName, admin.Username)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	if err := x.db.WithContext(ctx).Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAdminExists
		}
		logger.E("Failed to create admin", tracing.InnerError, err)
		return err
	}

	logger.I("Created admin", tracing.AdminName, admin.Username)
	return nil
}
