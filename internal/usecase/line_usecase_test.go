package usecase

import (
	"context"
	"testing"

	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/repository"
	"go-lab-case-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type lineFixture struct {
	db *gorm.DB
	uc LineUsecase
}

func newLineFixture(t *testing.T) *lineFixture {
	t.Helper()

	db := newTestDB(t)
	log := testLogger()

	uc := NewLineUsecase(
		db,
		log,
		repository.NewLineRepository(),
		repository.NewSectionRepository(),
		service.NewAuditService(log, repository.NewAuditRepository()),
	)

	return &lineFixture{db: db, uc: uc}
}

func seedSection(t *testing.T, db *gorm.DB, studyType entity.StudyType, code, name string, order int) *entity.Section {
	t.Helper()

	section := &entity.Section{
		StudyType:    studyType,
		Code:         code,
		Name:         name,
		DisplayOrder: order,
		IsActive:     true,
	}
	require.NoError(t, db.Create(section).Error)
	return section
}

func TestAddLineDeduplicatesWithinSection(t *testing.T) {
	f := newLineFixture(t)
	tech := seedUser(t, f.db, "technologist", entity.PermLinesManage)
	section := seedSection(t, f.db, entity.StudyTypeTissueBiopsy, "M", "Macroscopic Description", 1)

	first, err := f.uc.AddLine(context.Background(), tech.ID, &dto.CreateLineRequest{
		SectionID: section.ID,
		Text:      "Single fragment, 2 cm",
	})
	require.NoError(t, err)

	second, err := f.uc.AddLine(context.Background(), tech.ID, &dto.CreateLineRequest{
		SectionID: section.ID,
		Text:      "  Single fragment, 2 cm  ",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.db.Model(&entity.Line{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddLineUnknownSection(t *testing.T) {
	f := newLineFixture(t)
	tech := seedUser(t, f.db, "technologist")

	_, err := f.uc.AddLine(context.Background(), tech.ID, &dto.CreateLineRequest{
		SectionID: 999,
		Text:      "orphan",
	})
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestUseLineBumpsCounterAndStamp(t *testing.T) {
	f := newLineFixture(t)
	tech := seedUser(t, f.db, "technologist")
	section := seedSection(t, f.db, entity.StudyTypeTissueBiopsy, "M", "Macroscopic Description", 1)

	created, err := f.uc.AddLine(context.Background(), tech.ID, &dto.CreateLineRequest{
		SectionID: section.ID,
		Text:      "Tan-white cut surface",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.UsageCount)
	assert.Nil(t, created.LastUsedAt)

	used, err := f.uc.UseLine(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, used.UsageCount)
	assert.NotNil(t, used.LastUsedAt)

	used, err = f.uc.UseLine(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, used.UsageCount)
}

func TestUseLineRejectsDeactivated(t *testing.T) {
	f := newLineFixture(t)
	tech := seedUser(t, f.db, "technologist")
	section := seedSection(t, f.db, entity.StudyTypeTissueBiopsy, "M", "Macroscopic Description", 1)

	created, err := f.uc.AddLine(context.Background(), tech.ID, &dto.CreateLineRequest{
		SectionID: section.ID,
		Text:      "retired phrasing",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeactivateLine(context.Background(), tech.ID, created.ID))

	_, err = f.uc.UseLine(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrLineInactive)

	_, err = f.uc.UseLine(context.Background(), 999)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestListLinesRankedByUsage(t *testing.T) {
	f := newLineFixture(t)
	tech := seedUser(t, f.db, "technologist")
	section := seedSection(t, f.db, entity.StudyTypeTissueBiopsy, "D", "Microscopic Description", 2)

	rare, err := f.uc.AddLine(context.Background(), tech.ID, &dto.CreateLineRequest{SectionID: section.ID, Text: "rare finding"})
	require.NoError(t, err)
	common, err := f.uc.AddLine(context.Background(), tech.ID, &dto.CreateLineRequest{SectionID: section.ID, Text: "common finding"})
	require.NoError(t, err)

	_, err = f.uc.UseLine(context.Background(), common.ID)
	require.NoError(t, err)
	_, err = f.uc.UseLine(context.Background(), common.ID)
	require.NoError(t, err)

	listed, err := f.uc.ListLines(context.Background(), section.ID)
	require.NoError(t, err)
	require.Equal(t, 2, listed.Total)
	assert.Equal(t, common.ID, listed.Lines[0].ID)
	assert.Equal(t, rare.ID, listed.Lines[1].ID)

	// Deactivated lines disappear from the picker
	require.NoError(t, f.uc.DeactivateLine(context.Background(), tech.ID, rare.ID))
	listed, err = f.uc.ListLines(context.Background(), section.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Total)
}

func TestListSectionsGroupsByMacroCategory(t *testing.T) {
	f := newLineFixture(t)
	tech := seedUser(t, f.db, "technologist")

	m1 := seedSection(t, f.db, entity.StudyTypeCervicalCytology, "M1", "Specimen Adequacy", 1)
	seedSection(t, f.db, entity.StudyTypeCervicalCytology, "M2", "General Categorization", 2)
	seedSection(t, f.db, entity.StudyTypeCervicalCytology, "D1", "Interpretation", 3)
	// A different study type must not leak in
	seedSection(t, f.db, entity.StudyTypeTissueBiopsy, "M", "Macroscopic Description", 1)

	_, err := f.uc.AddLine(context.Background(), tech.ID, &dto.CreateLineRequest{SectionID: m1.ID, Text: "Satisfactory for evaluation"})
	require.NoError(t, err)

	listed, err := f.uc.ListSections(context.Background(), entity.StudyTypeCervicalCytology)
	require.NoError(t, err)

	assert.Equal(t, 3, listed.Total)
	require.Len(t, listed.Groups, 2)
	assert.Equal(t, "M", listed.Groups[0].MacroCategory)
	require.Len(t, listed.Groups[0].Sections, 2)
	assert.Equal(t, "M1", listed.Groups[0].Sections[0].Code)
	require.Len(t, listed.Groups[0].Sections[0].Lines, 1)
	assert.Equal(t, "D", listed.Groups[1].MacroCategory)
}
