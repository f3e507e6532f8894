package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDesignRequest struct {
	Name      string                 `json:"name" validate:"required,max=100"`
	StudyType string                 `json:"study_type" validate:"required,oneof=TISSUE_BIOPSY GENERAL_CYTOLOGY CERVICAL_CYTOLOGY"`
	Config    map[string]interface{} `json:"config" validate:"omitempty"`
	IsDefault bool                   `json:"is_default"`
}

type UpdateDesignRequest struct {
	Name     string                 `json:"name" validate:"omitempty,max=100"`
	Config   map[string]interface{} `json:"config" validate:"omitempty"`
	IsActive *bool                  `json:"is_active"`
}

// Response DTOs

type DesignResponse struct {
	ID        int64                  `json:"id"`
	Name      string                 `json:"name"`
	StudyType string                 `json:"study_type"`
	IsActive  bool                   `json:"is_active"`
	IsDefault bool                   `json:"is_default"`
	Config    map[string]interface{} `json:"config,omitempty"`
	CreatedBy *uuid.UUID             `json:"created_by,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type DesignListResponse struct {
	Designs []DesignResponse `json:"designs"`
	Total   int              `json:"total"`
}
