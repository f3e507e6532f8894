package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

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
	ErrSectionNotFound = errors.New("section not found")
	ErrLineNotFound    = errors.New("line not found")
	ErrLineInactive    = errors.New("line has been deactivated")
)

type LineUsecase interface {
	AddLine(ctx context.Context, actorID uuid.UUID, req *dto.CreateLineRequest) (*dto.LineResponse, error)
	UseLine(ctx context.Context, id int64) (*dto.LineResponse, error)
	ListLines(ctx context.Context, sectionID int64) (*dto.LineListResponse, error)
	DeactivateLine(ctx context.Context, actorID uuid.UUID, id int64) error
	ListSections(ctx context.Context, studyType entity.StudyType) (*dto.SectionListResponse, error)
}

type lineUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	lineRepo    repository.LineRepository
	sectionRepo repository.SectionRepository
	audit       service.AuditService
}

func NewLineUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	lineRepo repository.LineRepository,
	sectionRepo repository.SectionRepository,
	audit service.AuditService,
) LineUsecase {
	return &lineUsecase{
		db:          db,
		log:         log,
		lineRepo:    lineRepo,
		sectionRepo: sectionRepo,
		audit:       audit,
	}
}

// AddLine creates a reusable fragment under a section. An active line with
// the same text already present in the section is returned as-is instead of
// creating a duplicate.
func (u *lineUsecase) AddLine(ctx context.Context, actorID uuid.UUID, req *dto.CreateLineRequest) (*dto.LineResponse, error) {
	text := strings.TrimSpace(req.Text)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	section, err := u.sectionRepo.FindByID(tx, req.SectionID)
	if err != nil {
		u.log.Warnf("Failed to find section by ID: %+v", err)
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}

	existing, err := u.lineRepo.FindBySectionAndText(tx, section.ID, text)
	if err != nil {
		u.log.Warnf("Failed to check for duplicate line: %+v", err)
		return nil, err
	}
	if existing != nil {
		return converter.LineToResponse(existing), nil
	}

	line := &entity.Line{
		SectionID:    section.ID,
		Text:         text,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}

	if err := u.lineRepo.Create(tx, line); err != nil {
		u.log.Warnf("Failed to create line: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionLineCreate, entity.Line{}.TableName(), line.ID, fmt.Sprintf("Line added to section %s", section.Code)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.LineToResponse(line), nil
}

// UseLine records one use of a fragment. The bump is a single relative
// update; a reused line climbs the section's ranking over time.
func (u *lineUsecase) UseLine(ctx context.Context, id int64) (*dto.LineResponse, error) {
	db := u.db.WithContext(ctx)

	affected, err := u.lineRepo.IncrementUsage(db, id)
	if err != nil {
		u.log.Warnf("Failed to increment line usage: %+v", err)
		return nil, err
	}
	if affected == 0 {
		line, err := u.lineRepo.FindByID(db, id)
		if err != nil {
			return nil, err
		}
		if line == nil {
			return nil, ErrLineNotFound
		}
		return nil, ErrLineInactive
	}

	line, err := u.lineRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to reload line after usage bump: %+v", err)
		return nil, err
	}
	if line == nil {
		return nil, ErrLineNotFound
	}

	return converter.LineToResponse(line), nil
}

func (u *lineUsecase) ListLines(ctx context.Context, sectionID int64) (*dto.LineListResponse, error) {
	db := u.db.WithContext(ctx)

	section, err := u.sectionRepo.FindByID(db, sectionID)
	if err != nil {
		u.log.Warnf("Failed to find section by ID: %+v", err)
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}

	lines, err := u.lineRepo.FindActiveBySection(db, sectionID)
	if err != nil {
		u.log.Warnf("Failed to list lines: %+v", err)
		return nil, err
	}

	return &dto.LineListResponse{
		Lines: converter.LinesToResponses(lines),
		Total: len(lines),
	}, nil
}

// DeactivateLine soft-deletes a fragment. Cases that already selected its
// text keep their own copy; only future pickers stop seeing it.
func (u *lineUsecase) DeactivateLine(ctx context.Context, actorID uuid.UUID, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	line, err := u.lineRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find line by ID: %+v", err)
		return err
	}
	if line == nil {
		return ErrLineNotFound
	}

	if err := u.lineRepo.Deactivate(tx, id); err != nil {
		u.log.Warnf("Failed to deactivate line: %+v", err)
		return err
	}

	if err := u.audit.Record(tx, &actorID, entity.AuditActionLineDeactivate, entity.Line{}.TableName(), id, "Line deactivated"); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// ListSections returns the study type's active sections with their ranked
// active lines, grouped by macro category for the intake form.
func (u *lineUsecase) ListSections(ctx context.Context, studyType entity.StudyType) (*dto.SectionListResponse, error) {
	db := u.db.WithContext(ctx)

	sections, err := u.sectionRepo.FindByStudyType(db, studyType)
	if err != nil {
		u.log.Warnf("Failed to list sections: %+v", err)
		return nil, err
	}

	for i := range sections {
		lines, err := u.lineRepo.FindActiveBySection(db, sections[i].ID)
		if err != nil {
			u.log.Warnf("Failed to load lines for section %s: %+v", sections[i].Code, err)
			return nil, err
		}
		sections[i].Lines = lines
	}

	return converter.SectionsToGroupedResponse(sections), nil
}
