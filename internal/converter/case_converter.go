package converter

import (
	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
)

// CaseToResponse converts a Case entity to CaseResponse DTO
func CaseToResponse(c *entity.Case) *dto.CaseResponse {
	if c == nil {
		return nil
	}

	return &dto.CaseResponse{
		ID:             c.ID,
		Number:         c.Number,
		StudyType:      string(c.StudyType),
		Status:         string(c.Status),
		IsDraft:        c.IsDraft,
		PatientRef:     c.PatientRef,
		ProviderRef:    c.ProviderRef,
		InsurerRef:     c.InsurerRef,
		ClinicalNotes:  c.ClinicalNotes,
		IntakeDate:     c.IntakeDate,
		CompletionDate: c.CompletionDate,
		CreatedBy:      c.CreatedBy,
		Lines:          CaseLinesToResponses(c.Lines),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// CasesToResponses converts a slice of Case entities to slice of CaseResponse DTOs
func CasesToResponses(cases []entity.Case) []dto.CaseResponse {
	responses := make([]dto.CaseResponse, len(cases))
	for i := range cases {
		responses[i] = *CaseToResponse(&cases[i])
	}
	return responses
}

// CaseLinesToResponses converts persisted case lines to response DTOs
func CaseLinesToResponses(lines []entity.CaseLine) []dto.CaseLineResponse {
	if len(lines) == 0 {
		return nil
	}
	responses := make([]dto.CaseLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = dto.CaseLineResponse{
			SectionCode:  line.SectionCode,
			Text:         line.Text,
			DisplayOrder: line.DisplayOrder,
		}
	}
	return responses
}
