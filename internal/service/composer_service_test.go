package service

import (
	"testing"
	"time"

	"go-lab-case-tracker/config"
	"go-lab-case-tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComposer() *ComposerService {
	return NewComposerService(testLogger(), config.LabConfig{
		Name:    "Histopathology Diagnostic Laboratory",
		Address: "12 Main St",
		Phone:   "555-0100",
		Email:   "lab@example.com",
	})
}

func biopsySections() []entity.Section {
	return []entity.Section{
		{StudyType: entity.StudyTypeTissueBiopsy, Code: "M", Name: "Macroscopic Description", DisplayOrder: 1},
		{StudyType: entity.StudyTypeTissueBiopsy, Code: "D", Name: "Microscopic Description", DisplayOrder: 2},
		{StudyType: entity.StudyTypeTissueBiopsy, Code: "N", Name: "Diagnosis", DisplayOrder: 3},
	}
}

func TestComposeCanonicalSectionOrder(t *testing.T) {
	c := &entity.Case{
		Number:     "B-25-0001",
		StudyType:  entity.StudyTypeTissueBiopsy,
		Status:     entity.CaseStatusCompleted,
		PatientRef: "patient-1",
		IntakeDate: time.Now(),
	}

	// Lines arrive in an order unrelated to the canonical one
	lines := []entity.CaseLine{
		{SectionCode: "N", Text: "Benign lesion"},
		{SectionCode: "M", Text: "Single fragment, 2 cm"},
		{SectionCode: "D", Text: "Unremarkable epithelium"},
		{SectionCode: "M", Text: "Tan-white cut surface"},
	}

	doc := testComposer().Compose(c, lines, biopsySections(), nil)

	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "M", doc.Sections[0].Code)
	assert.Equal(t, "Macroscopic Description", doc.Sections[0].Title)
	assert.Equal(t, []string{"Single fragment, 2 cm", "Tan-white cut surface"}, doc.Sections[0].Lines)
	assert.Equal(t, "D", doc.Sections[1].Code)
	assert.Equal(t, "N", doc.Sections[2].Code)
}

func TestComposeOmitsEmptySections(t *testing.T) {
	c := &entity.Case{Number: "B-25-0002", StudyType: entity.StudyTypeTissueBiopsy, Status: entity.CaseStatusInProgress}

	lines := []entity.CaseLine{
		{SectionCode: "N", Text: "Pending diagnosis"},
	}

	doc := testComposer().Compose(c, lines, biopsySections(), nil)

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "N", doc.Sections[0].Code)
}

func TestComposeAppendsUnknownSectionsLast(t *testing.T) {
	c := &entity.Case{Number: "B-25-0003", StudyType: entity.StudyTypeTissueBiopsy, Status: entity.CaseStatusInProgress}

	lines := []entity.CaseLine{
		{SectionCode: "Z9", Text: "Legacy note"},
		{SectionCode: "M", Text: "Two fragments"},
	}

	doc := testComposer().Compose(c, lines, biopsySections(), nil)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "M", doc.Sections[0].Code)
	assert.Equal(t, "Z9", doc.Sections[1].Code)
	// No canonical section to take a title from, so the code stands in
	assert.Equal(t, "Z9", doc.Sections[1].Title)
}

func TestComposeStampsLabIdentity(t *testing.T) {
	c := &entity.Case{Number: "C-25-0001", StudyType: entity.StudyTypeGeneralCytology, Status: entity.CaseStatusPending}

	doc := testComposer().Compose(c, nil, nil, nil)

	assert.Equal(t, "Histopathology Diagnostic Laboratory", doc.Lab.Name)
	assert.Equal(t, "12 Main St", doc.Lab.Address)
	assert.Equal(t, "555-0100", doc.Lab.Phone)
}

func TestEffectiveConfigNoDesignUsesDefaults(t *testing.T) {
	composer := testComposer()

	assert.Equal(t, DefaultDesignConfig(), composer.EffectiveConfig(nil))
	assert.Equal(t, DefaultDesignConfig(), composer.EffectiveConfig(&entity.DocumentDesign{}))
}

func TestEffectiveConfigMalformedFallsBackToDefaults(t *testing.T) {
	composer := testComposer()

	design := &entity.DocumentDesign{ID: 7, Name: "broken", Config: "{not valid json"}
	assert.Equal(t, DefaultDesignConfig(), composer.EffectiveConfig(design))
}

func TestEffectiveConfigMergesOverrides(t *testing.T) {
	composer := testComposer()

	design := &entity.DocumentDesign{
		Config: `{"margins":{"top":35},"print":{"orientation":"landscape"}}`,
	}

	effective := composer.EffectiveConfig(design)

	margins := effective["margins"].(map[string]interface{})
	assert.EqualValues(t, 35, margins["top"])
	assert.EqualValues(t, 20, margins["bottom"])

	print := effective["print"].(map[string]interface{})
	assert.Equal(t, "landscape", print["orientation"])
	assert.Equal(t, "A4", print["paper_size"])
}

func TestEffectiveConfigBackfillsKeysAddedAfterSave(t *testing.T) {
	composer := testComposer()

	// A design saved before the print block existed in the schema
	design := &entity.DocumentDesign{Config: `{"letterhead_space":40}`}

	effective := composer.EffectiveConfig(design)

	assert.EqualValues(t, 40, effective["letterhead_space"])
	require.Contains(t, effective, "print")
	require.Contains(t, effective, "sections")
	assert.Equal(t, DefaultDesignConfig()["print"], effective["print"])
}
