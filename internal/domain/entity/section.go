package entity

import "time"

// Section is a named subdivision of a report for a given study type, with a
// canonical display order used by the composer.
type Section struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StudyType    StudyType `gorm:"type:varchar(30);not null;index:idx_sections_type_order,priority:1" json:"study_type"`
	Code         string    `gorm:"type:varchar(20);not null" json:"code"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	DisplayOrder int       `gorm:"not null;default:0;index:idx_sections_type_order,priority:2" json:"display_order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Lines []Line `gorm:"foreignKey:SectionID" json:"lines,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}

// MacroCategory derives the presentation grouping from the section code's
// leading character (e.g. "M1" and "M2" both group under "M"). It has no
// effect on report composition.
func (s *Section) MacroCategory() string {
	if s.Code == "" {
		return ""
	}
	return s.Code[:1]
}

// Line is a reusable text fragment attached to a section. Lines are only
// ever deactivated, never hard-deleted.
type Line struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	SectionID    int64      `gorm:"not null;index" json:"section_id"`
	Text         string     `gorm:"type:text;not null" json:"text"`
	DisplayOrder int        `gorm:"not null;default:0" json:"display_order"`
	UsageCount   int        `gorm:"not null;default:0" json:"usage_count"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	IsActive     bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Section Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}

func (Line) TableName() string {
	return "lines"
}
