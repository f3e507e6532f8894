package converter

import (
	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
)

// LineToResponse converts a Line entity to LineResponse DTO
func LineToResponse(line *entity.Line) *dto.LineResponse {
	if line == nil {
		return nil
	}

	return &dto.LineResponse{
		ID:           line.ID,
		SectionID:    line.SectionID,
		Text:         line.Text,
		DisplayOrder: line.DisplayOrder,
		UsageCount:   line.UsageCount,
		LastUsedAt:   line.LastUsedAt,
		IsActive:     line.IsActive,
		CreatedAt:    line.CreatedAt,
	}
}

// LinesToResponses converts a slice of Line entities to slice of LineResponse DTOs
func LinesToResponses(lines []entity.Line) []dto.LineResponse {
	responses := make([]dto.LineResponse, len(lines))
	for i := range lines {
		responses[i] = *LineToResponse(&lines[i])
	}
	return responses
}

// SectionToResponse converts a Section entity to SectionResponse DTO
func SectionToResponse(section *entity.Section) *dto.SectionResponse {
	if section == nil {
		return nil
	}

	return &dto.SectionResponse{
		ID:            section.ID,
		StudyType:     string(section.StudyType),
		Code:          section.Code,
		Name:          section.Name,
		Description:   section.Description,
		DisplayOrder:  section.DisplayOrder,
		MacroCategory: section.MacroCategory(),
		Lines:         LinesToResponses(section.Lines),
	}
}

// SectionsToGroupedResponse groups sections by macro category, keeping the
// canonical section order both across and inside groups.
func SectionsToGroupedResponse(sections []entity.Section) *dto.SectionListResponse {
	groupIndex := map[string]int{}
	groups := []dto.SectionGroupResponse{}

	for i := range sections {
		category := sections[i].MacroCategory()
		idx, ok := groupIndex[category]
		if !ok {
			idx = len(groups)
			groupIndex[category] = idx
			groups = append(groups, dto.SectionGroupResponse{MacroCategory: category})
		}
		groups[idx].Sections = append(groups[idx].Sections, *SectionToResponse(&sections[i]))
	}

	return &dto.SectionListResponse{
		Groups: groups,
		Total:  len(sections),
	}
}
