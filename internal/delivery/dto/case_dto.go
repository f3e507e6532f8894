package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CaseLineRequest struct {
	SectionCode string `json:"section_code" validate:"required,max=20"`
	Text        string `json:"text" validate:"required"`
}

type CreateCaseRequest struct {
	StudyType     string            `json:"study_type" validate:"required,oneof=TISSUE_BIOPSY GENERAL_CYTOLOGY CERVICAL_CYTOLOGY"`
	PatientRef    string            `json:"patient_ref" validate:"required,max=100"`
	ProviderRef   string            `json:"provider_ref" validate:"omitempty,max=100"`
	InsurerRef    string            `json:"insurer_ref" validate:"omitempty,max=100"`
	ClinicalNotes string            `json:"clinical_notes" validate:"omitempty"`
	IntakeDate    string            `json:"intake_date" validate:"omitempty"` // Format: YYYY-MM-DD, defaults to today
	IsDraft       bool              `json:"is_draft"`
	Urgent        bool              `json:"urgent"`
	MarkCompleted bool              `json:"mark_completed"`
	Lines         []CaseLineRequest `json:"lines" validate:"omitempty,dive"`
}

type UpdateCaseRequest struct {
	PatientRef    string            `json:"patient_ref" validate:"omitempty,max=100"`
	ProviderRef   string            `json:"provider_ref" validate:"omitempty,max=100"`
	InsurerRef    string            `json:"insurer_ref" validate:"omitempty,max=100"`
	ClinicalNotes string            `json:"clinical_notes" validate:"omitempty"`
	Urgent        *bool             `json:"urgent"`
	Lines         []CaseLineRequest `json:"lines" validate:"omitempty,dive"`
}

type SetCaseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING URGENT IN_PROGRESS COMPLETED CANCELLED"`
}

// Response DTOs

type CaseLineResponse struct {
	SectionCode  string `json:"section_code"`
	Text         string `json:"text"`
	DisplayOrder int    `json:"display_order"`
}

type CaseResponse struct {
	ID             int64              `json:"id"`
	Number         string             `json:"number"`
	StudyType      string             `json:"study_type"`
	Status         string             `json:"status"`
	IsDraft        bool               `json:"is_draft"`
	PatientRef     string             `json:"patient_ref"`
	ProviderRef    string             `json:"provider_ref,omitempty"`
	InsurerRef     string             `json:"insurer_ref,omitempty"`
	ClinicalNotes  string             `json:"clinical_notes,omitempty"`
	IntakeDate     time.Time          `json:"intake_date"`
	CompletionDate *time.Time         `json:"completion_date,omitempty"`
	CreatedBy      *uuid.UUID         `json:"created_by,omitempty"`
	Lines          []CaseLineResponse `json:"lines,omitempty"`
	Notice         string             `json:"notice,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type CaseListResponse struct {
	Cases []CaseResponse `json:"cases"`
	Total int            `json:"total"`
}

type CaseStatsResponse struct {
	ByStatus    map[string]int64 `json:"by_status"`
	ByStudyType map[string]int64 `json:"by_study_type"`
}
