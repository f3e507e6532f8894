package entity

import (
	"time"

	"github.com/google/uuid"
)

// StudyType categorizes the diagnostic analysis performed on a case
type StudyType string

const (
	StudyTypeTissueBiopsy     StudyType = "TISSUE_BIOPSY"
	StudyTypeGeneralCytology  StudyType = "GENERAL_CYTOLOGY"
	StudyTypeCervicalCytology StudyType = "CERVICAL_CYTOLOGY"
)

// Prefix returns the one-letter case number prefix for the study type
func (t StudyType) Prefix() string {
	switch t {
	case StudyTypeTissueBiopsy:
		return "B"
	case StudyTypeGeneralCytology:
		return "C"
	case StudyTypeCervicalCytology:
		return "P"
	}
	return "X"
}

// IsValid reports whether the study type is one of the known categories
func (t StudyType) IsValid() bool {
	switch t {
	case StudyTypeTissueBiopsy, StudyTypeGeneralCytology, StudyTypeCervicalCytology:
		return true
	}
	return false
}

// CaseStatus represents the processing state of a case
type CaseStatus string

const (
	CaseStatusPending    CaseStatus = "PENDING"
	CaseStatusUrgent     CaseStatus = "URGENT"
	CaseStatusInProgress CaseStatus = "IN_PROGRESS"
	CaseStatusCompleted  CaseStatus = "COMPLETED"
	CaseStatusCancelled  CaseStatus = "CANCELLED"
)

// IsValid reports whether the status is one of the known states
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusPending, CaseStatusUrgent, CaseStatusInProgress, CaseStatusCompleted, CaseStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a case may move from s to target.
// COMPLETED is terminal: nothing leaves it, and entering it is additionally
// gated by the completion capability at the usecase layer.
func (s CaseStatus) CanTransitionTo(target CaseStatus) bool {
	if s == CaseStatusCompleted || s == CaseStatusCancelled {
		return false
	}
	switch target {
	case CaseStatusCompleted, CaseStatusCancelled:
		return true
	case CaseStatusUrgent:
		return s == CaseStatusPending || s == CaseStatusInProgress
	case CaseStatusInProgress:
		return s == CaseStatusPending || s == CaseStatusUrgent
	case CaseStatusPending:
		return s == CaseStatusInProgress || s == CaseStatusUrgent
	}
	return false
}

// Case is one tracked diagnostic study, from intake to finalized report
type Case struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number          string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	StudyType       StudyType  `gorm:"type:varchar(30);not null;index" json:"study_type"`
	Status          CaseStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	IsDraft         bool       `gorm:"not null;default:false;index" json:"is_draft"`
	PatientRef      string     `gorm:"type:varchar(100);not null" json:"patient_ref"`
	ProviderRef     string     `gorm:"type:varchar(100)" json:"provider_ref,omitempty"`
	InsurerRef      string     `gorm:"type:varchar(100)" json:"insurer_ref,omitempty"`
	ClinicalNotes   string     `gorm:"type:text" json:"clinical_notes,omitempty"`
	IntakeDate      time.Time  `gorm:"not null;index" json:"intake_date"`
	CompletionDate  *time.Time `json:"completion_date,omitempty"`
	CompletingActor *uuid.UUID `gorm:"type:uuid" json:"completing_actor,omitempty"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Lines []CaseLine `gorm:"foreignKey:CaseID" json:"lines,omitempty"`
}

func (Case) TableName() string {
	return "cases"
}

// IsEditable reports whether case content may still be modified
func (c *Case) IsEditable() bool {
	switch c.Status {
	case CaseStatusPending, CaseStatusInProgress, CaseStatusUrgent:
		return true
	}
	return false
}

// IsCompleted checks if the case reached its terminal reported state
func (c *Case) IsCompleted() bool {
	return c.Status == CaseStatusCompleted
}

// Complete stamps the terminal state with the completing actor
func (c *Case) Complete(actor uuid.UUID, at time.Time) {
	c.Status = CaseStatusCompleted
	c.CompletionDate = &at
	c.CompletingActor = &actor
}
