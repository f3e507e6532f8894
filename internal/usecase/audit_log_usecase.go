package usecase

import (
	"context"
	"errors"

	"go-lab-case-tracker/internal/converter"
	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditEntryNotFound = errors.New("audit entry not found")
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

type AuditLogUsecase interface {
	ListEntries(ctx context.Context, limit, offset int) (*dto.AuditListResponse, error)
	GetEntry(ctx context.Context, id int64) (*dto.AuditEntryResponse, error)
}

type auditLogUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditRepo repository.AuditRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

func (u *auditLogUsecase) ListEntries(ctx context.Context, limit, offset int) (*dto.AuditListResponse, error) {
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := u.auditRepo.FindAll(u.db.WithContext(ctx), limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list audit entries: %+v", err)
		return nil, err
	}

	return &dto.AuditListResponse{
		Entries: converter.AuditEntriesToResponses(entries),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

func (u *auditLogUsecase) GetEntry(ctx context.Context, id int64) (*dto.AuditEntryResponse, error) {
	entry, err := u.auditRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit entry: %+v", err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrAuditEntryNotFound
	}

	return converter.AuditEntryToResponse(entry), nil
}
