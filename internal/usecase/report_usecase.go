package usecase

import (
	"context"

	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/domain/repository"
	"go-lab-case-tracker/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReportUsecase interface {
	ComposeReport(ctx context.Context, caseID int64, designID *int64) (*service.RenderableDocument, error)
}

type reportUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	caseRepo     repository.CaseRepository
	caseLineRepo repository.CaseLineRepository
	sectionRepo  repository.SectionRepository
	designRepo   repository.DesignRepository
	composer     *service.ComposerService
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	caseRepo repository.CaseRepository,
	caseLineRepo repository.CaseLineRepository,
	sectionRepo repository.SectionRepository,
	designRepo repository.DesignRepository,
	composer *service.ComposerService,
) ReportUsecase {
	return &reportUsecase{
		db:           db,
		log:          log,
		caseRepo:     caseRepo,
		caseLineRepo: caseLineRepo,
		sectionRepo:  sectionRepo,
		designRepo:   designRepo,
		composer:     composer,
	}
}

// ComposeReport assembles the renderable document for a case. With no
// explicit design the study type's default applies; with none configured the
// composer falls back to its built-in layout.
func (u *reportUsecase) ComposeReport(ctx context.Context, caseID int64, designID *int64) (*service.RenderableDocument, error) {
	db := u.db.WithContext(ctx)

	c, err := u.caseRepo.FindByID(db, caseID)
	if err != nil {
		u.log.Warnf("Failed to find case by ID: %+v", err)
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}

	lines, err := u.caseLineRepo.FindByCase(db, c.ID)
	if err != nil {
		u.log.Warnf("Failed to load case lines: %+v", err)
		return nil, err
	}

	sections, err := u.sectionRepo.FindByStudyType(db, c.StudyType)
	if err != nil {
		u.log.Warnf("Failed to load sections: %+v", err)
		return nil, err
	}

	design, err := u.resolveDesign(db, c, designID)
	if err != nil {
		return nil, err
	}

	return u.composer.Compose(c, lines, sections, design), nil
}

func (u *reportUsecase) resolveDesign(db *gorm.DB, c *entity.Case, designID *int64) (*entity.DocumentDesign, error) {
	if designID != nil {
		design, err := u.designRepo.FindByID(db, *designID)
		if err != nil {
			u.log.Warnf("Failed to find design by ID: %+v", err)
			return nil, err
		}
		if design == nil {
			return nil, ErrDesignNotFound
		}
		return design, nil
	}

	design, err := u.designRepo.FindDefault(db, c.StudyType)
	if err != nil {
		u.log.Warnf("Failed to find default design: %+v", err)
		return nil, err
	}
	return design, nil
}
