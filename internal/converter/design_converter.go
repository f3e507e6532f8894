package converter

import (
	"encoding/json"

	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
)

// DesignToResponse converts a DocumentDesign entity to DesignResponse DTO.
// The stored overrides are returned as parsed JSON; a malformed payload
// surfaces as an empty config rather than an error.
func DesignToResponse(design *entity.DocumentDesign) *dto.DesignResponse {
	if design == nil {
		return nil
	}

	var config map[string]interface{}
	if design.Config != "" {
		if err := json.Unmarshal([]byte(design.Config), &config); err != nil {
			config = nil
		}
	}

	return &dto.DesignResponse{
		ID:        design.ID,
		Name:      design.Name,
		StudyType: string(design.StudyType),
		IsActive:  design.IsActive,
		IsDefault: design.IsDefault,
		Config:    config,
		CreatedBy: design.CreatedBy,
		CreatedAt: design.CreatedAt,
		UpdatedAt: design.UpdatedAt,
	}
}

// DesignsToResponses converts a slice of DocumentDesign entities to slice of DesignResponse DTOs
func DesignsToResponses(designs []entity.DocumentDesign) []dto.DesignResponse {
	responses := make([]dto.DesignResponse, len(designs))
	for i := range designs {
		responses[i] = *DesignToResponse(&designs[i])
	}
	return responses
}
