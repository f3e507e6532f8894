package converter

import (
	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
)

// AuditEntryToResponse converts an AuditEntry entity to AuditEntryResponse DTO
func AuditEntryToResponse(entry *entity.AuditEntry) *dto.AuditEntryResponse {
	if entry == nil {
		return nil
	}

	response := &dto.AuditEntryResponse{
		ID:          entry.ID,
		ActorID:     entry.ActorID,
		Action:      entry.Action,
		TargetKind:  entry.TargetKind,
		TargetID:    entry.TargetID,
		Description: entry.Description,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
	if entry.Actor != nil {
		response.ActorName = entry.Actor.FullName
	}
	return response
}

// AuditEntriesToResponses converts a slice of AuditEntry entities to slice of AuditEntryResponse DTOs
func AuditEntriesToResponses(entries []entity.AuditEntry) []dto.AuditEntryResponse {
	responses := make([]dto.AuditEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *AuditEntryToResponse(&entries[i])
	}
	return responses
}
