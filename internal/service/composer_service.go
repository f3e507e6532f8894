package service

import (
	"encoding/json"
	"time"

	"go-lab-case-tracker/config"
	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/pkg/merge"

	"github.com/sirupsen/logrus"
)

// RenderableSection is one ordered, non-empty section of a composed report
type RenderableSection struct {
	Code  string   `json:"code"`
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// LabIdentity is the laboratory letterhead data stamped on every document
type LabIdentity struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// RenderableDocument is the render-agnostic output of composition. An
// external renderer turns it into PDF/HTML; no markup logic lives here.
type RenderableDocument struct {
	CaseNumber     string                 `json:"case_number"`
	StudyType      entity.StudyType       `json:"study_type"`
	Status         entity.CaseStatus      `json:"status"`
	PatientRef     string                 `json:"patient_ref"`
	ProviderRef    string                 `json:"provider_ref,omitempty"`
	InsurerRef     string                 `json:"insurer_ref,omitempty"`
	ClinicalNotes  string                 `json:"clinical_notes,omitempty"`
	IntakeDate     time.Time              `json:"intake_date"`
	CompletionDate *time.Time             `json:"completion_date,omitempty"`
	Lab            LabIdentity            `json:"lab"`
	Sections       []RenderableSection    `json:"sections"`
	Config         map[string]interface{} `json:"config"`
}

// ComposerService assembles renderable documents from a case's selected
// fragments and a document design. The lab identity is injected at
// construction so composition never reads global settings.
type ComposerService struct {
	log *logrus.Logger
	lab config.LabConfig
}

func NewComposerService(log *logrus.Logger, lab config.LabConfig) *ComposerService {
	return &ComposerService{
		log: log,
		lab: lab,
	}
}

// Compose groups the case's selected lines by section in the canonical
// order given by sections; codes not in the canonical list are appended in
// storage order, and sections with no selected lines are omitted entirely.
func (s *ComposerService) Compose(c *entity.Case, lines []entity.CaseLine, sections []entity.Section, design *entity.DocumentDesign) *RenderableDocument {
	grouped := map[string][]string{}
	var storageOrder []string
	for _, line := range lines {
		if _, seen := grouped[line.SectionCode]; !seen {
			storageOrder = append(storageOrder, line.SectionCode)
		}
		grouped[line.SectionCode] = append(grouped[line.SectionCode], line.Text)
	}

	var rendered []RenderableSection
	canonical := map[string]bool{}
	for _, section := range sections {
		canonical[section.Code] = true
		texts := grouped[section.Code]
		if len(texts) == 0 {
			continue
		}
		rendered = append(rendered, RenderableSection{
			Code:  section.Code,
			Title: section.Name,
			Lines: texts,
		})
	}

	for _, code := range storageOrder {
		if canonical[code] {
			continue
		}
		rendered = append(rendered, RenderableSection{
			Code:  code,
			Title: code,
			Lines: grouped[code],
		})
	}

	return &RenderableDocument{
		CaseNumber:     c.Number,
		StudyType:      c.StudyType,
		Status:         c.Status,
		PatientRef:     c.PatientRef,
		ProviderRef:    c.ProviderRef,
		InsurerRef:     c.InsurerRef,
		ClinicalNotes:  c.ClinicalNotes,
		IntakeDate:     c.IntakeDate,
		CompletionDate: c.CompletionDate,
		Lab: LabIdentity{
			Name:    s.lab.Name,
			Address: s.lab.Address,
			Phone:   s.lab.Phone,
			Email:   s.lab.Email,
		},
		Sections: rendered,
		Config:   s.EffectiveConfig(design),
	}
}

// EffectiveConfig merges the design's stored overrides over the built-in
// defaults. A missing design or malformed stored configuration degrades to
// the defaults; composition never fails on bad design data.
func (s *ComposerService) EffectiveConfig(design *entity.DocumentDesign) map[string]interface{} {
	defaults := DefaultDesignConfig()
	if design == nil || design.Config == "" {
		return defaults
	}

	var override map[string]interface{}
	if err := json.Unmarshal([]byte(design.Config), &override); err != nil {
		s.log.Warnf("Malformed configuration on design %d (%s), falling back to defaults: %+v", design.ID, design.Name, err)
		return defaults
	}

	return merge.Maps(defaults, override)
}

// DefaultDesignConfig is the built-in layout schema. Saved designs store
// only overrides against it; new keys added here show up on old designs
// through the recursive merge.
func DefaultDesignConfig() map[string]interface{} {
	return map[string]interface{}{
		// Document margins in mm
		"margins": map[string]interface{}{
			"top":    20,
			"bottom": 20,
			"left":   20,
			"right":  20,
		},
		// Reserved height for pre-printed letterhead (0 for plain paper)
		"letterhead_space": 0,
		"header": map[string]interface{}{
			"show_logo":       true,
			"logo_width":      240,
			"logo_height":     240,
			"logo_position":   "left",
			"lab_name_font":   "Arial",
			"lab_name_size":   24,
			"lab_name_color":  "#007bff",
			"title_font":      "Arial",
			"title_size":      18,
			"title_color":     "#333",
			"title_alignment": "center",
			"subtitle_font":   "Arial",
			"subtitle_size":   14,
			"subtitle_color":  "#666",
			"padding_bottom":  5,
		},
		"case_data": map[string]interface{}{
			"show":                 true,
			"columns":              3,
			"spacing":              20,
			"padding":              15,
			"background":           "#f8f9fa",
			"margin_bottom":        30,
			"label_case":           "Case:",
			"label_date":           "Date:",
			"label_patient":        "Patient:",
			"label_insurer":        "Insurer:",
			"label_provider":       "Provider:",
			"group_title_case":     "CASE AND DATE",
			"group_title_patient":  "PATIENT DATA",
			"group_title_provider": "PROVIDER DATA",
		},
		"custom_texts": map[string]interface{}{
			"signature_text": "",
			"show_signature": true,
			"footer_text":    "",
			"show_footer":    true,
			"extra_texts":    []interface{}{},
		},
		"sections": map[string]interface{}{
			"spacing":           20,
			"title_font":        "Arial",
			"title_size":        12,
			"title_bold":        true,
			"title_color":       "#007bff",
			"title_background":  "#e3f2fd",
			"content_font":      "Arial",
			"content_size":      12,
			"content_color":     "#333",
			"content_alignment": "left",
			"line_height":       1.4,
			"margin_bottom":     15,
			"indentation":       15,
			"show_bullets":      true,
			"bullet_color":      "#007bff",
		},
		"print": map[string]interface{}{
			"paper_size":  "A4",
			"orientation": "portrait",
			"scale":       100,
		},
	}
}
