package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-lab-case-tracker/internal/converter"
	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/domain/repository"
	"go-lab-case-tracker/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDesignNotFound = errors.New("design not found")
)

type DesignUsecase interface {
	CreateDesign(ctx context.Context, actorID uuid.UUID, req *dto.CreateDesignRequest) (*dto.DesignResponse, error)
	UpdateDesign(ctx context.Context, actorID uuid.UUID, id int64, req *dto.UpdateDesignRequest) (*dto.DesignResponse, error)
	GetDesign(ctx context.Context, id int64) (*dto.DesignResponse, error)
	ListDesigns(ctx context.Context, studyType entity.StudyType) (*dto.DesignListResponse, error)
	SetDefault(ctx context.Context, actorID uuid.UUID, id int64) (*dto.DesignResponse, error)
}

type designUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	designRepo repository.DesignRepository
	audit      service.AuditService
}

func NewDesignUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	designRepo repository.DesignRepository,
	audit service.AuditService,
) DesignUsecase {
	return &designUsecase{
		db:         db,
		log:        log,
		designRepo: designRepo,
		audit:      audit,
	}
}

func (u *designUsecase) CreateDesign(ctx context.Context, actorID uuid.UUID, req *dto.CreateDesignRequest) (*dto.DesignResponse, error) {
	configJSON, err := marshalDesignConfig(req.Config)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	design := &entity.DocumentDesign{
		Name:      req.Name,
		StudyType: entity.StudyType(req.StudyType),
		IsActive:  true,
		Config:    configJSON,
		CreatedBy: &actorID,
	}

	// Only one default per study type: clear first, then flag the new one
	if req.IsDefault {
		if err := u.designRepo.ClearDefault(tx, design.StudyType); err != nil {
			u.log.Warnf("Failed to clear default design: %+v", err)
			return nil, err
		}
		design.IsDefault = true
	}

	if err := u.designRepo.Create(tx, design); err != nil {
		u.log.Warnf("Failed to create design: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionDesignCreate, entity.DocumentDesign{}.TableName(), design.ID, fmt.Sprintf("Design %q created", design.Name)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DesignToResponse(design), nil
}

func (u *designUsecase) UpdateDesign(ctx context.Context, actorID uuid.UUID, id int64, req *dto.UpdateDesignRequest) (*dto.DesignResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	design, err := u.designRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find design by ID: %+v", err)
		return nil, err
	}
	if design == nil {
		return nil, ErrDesignNotFound
	}

	if req.Name != "" {
		design.Name = req.Name
	}
	if req.Config != nil {
		configJSON, err := marshalDesignConfig(req.Config)
		if err != nil {
			return nil, err
		}
		design.Config = configJSON
	}
	if req.IsActive != nil {
		design.IsActive = *req.IsActive
	}

	if err := u.designRepo.Update(tx, design); err != nil {
		u.log.Warnf("Failed to update design: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionDesignUpdate, entity.DocumentDesign{}.TableName(), design.ID, fmt.Sprintf("Design %q updated", design.Name)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DesignToResponse(design), nil
}

func (u *designUsecase) GetDesign(ctx context.Context, id int64) (*dto.DesignResponse, error) {
	design, err := u.designRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find design by ID: %+v", err)
		return nil, err
	}
	if design == nil {
		return nil, ErrDesignNotFound
	}
	return converter.DesignToResponse(design), nil
}

func (u *designUsecase) ListDesigns(ctx context.Context, studyType entity.StudyType) (*dto.DesignListResponse, error) {
	designs, err := u.designRepo.FindByStudyType(u.db.WithContext(ctx), studyType)
	if err != nil {
		u.log.Warnf("Failed to list designs: %+v", err)
		return nil, err
	}

	return &dto.DesignListResponse{
		Designs: converter.DesignsToResponses(designs),
		Total:   len(designs),
	}, nil
}

// SetDefault makes the design the study type's default, atomically with
// clearing the previous holder.
func (u *designUsecase) SetDefault(ctx context.Context, actorID uuid.UUID, id int64) (*dto.DesignResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	design, err := u.designRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find design by ID: %+v", err)
		return nil, err
	}
	if design == nil {
		return nil, ErrDesignNotFound
	}

	if err := u.designRepo.ClearDefault(tx, design.StudyType); err != nil {
		u.log.Warnf("Failed to clear default design: %+v", err)
		return nil, err
	}

	design.IsDefault = true
	if err := u.designRepo.Update(tx, design); err != nil {
		u.log.Warnf("Failed to set default design: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionDesignDefault, entity.DocumentDesign{}.TableName(), design.ID, fmt.Sprintf("Design %q set as default for %s", design.Name, design.StudyType)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DesignToResponse(design), nil
}

func marshalDesignConfig(config map[string]interface{}) (string, error) {
	if len(config) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
