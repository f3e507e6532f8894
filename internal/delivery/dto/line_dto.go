package dto

import "time"

// Request DTOs

type CreateLineRequest struct {
	SectionID    int64  `json:"section_id" validate:"required"`
	Text         string `json:"text" validate:"required"`
	DisplayOrder int    `json:"display_order" validate:"omitempty,min=0"`
}

// Response DTOs

type LineResponse struct {
	ID           int64      `json:"id"`
	SectionID    int64      `json:"section_id"`
	Text         string     `json:"text"`
	DisplayOrder int        `json:"display_order"`
	UsageCount   int        `json:"usage_count"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

type LineListResponse struct {
	Lines []LineResponse `json:"lines"`
	Total int            `json:"total"`
}

type SectionResponse struct {
	ID            int64          `json:"id"`
	StudyType     string         `json:"study_type"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	DisplayOrder  int            `json:"display_order"`
	MacroCategory string         `json:"macro_category"`
	Lines         []LineResponse `json:"lines,omitempty"`
}

// SectionGroupResponse bundles the sections sharing a macro category, for
// the intake form's grouped presentation.
type SectionGroupResponse struct {
	MacroCategory string            `json:"macro_category"`
	Sections      []SectionResponse `json:"sections"`
}

type SectionListResponse struct {
	Groups []SectionGroupResponse `json:"groups"`
	Total  int                    `json:"total"`
}
