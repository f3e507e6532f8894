package entity

import "time"

// CaseLine is one selected report fragment persisted on a case. Every study
// type shares this single per-section model; the case's study type tags
// which canonical section list the codes resolve against.
type CaseLine struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID       int64     `gorm:"not null;index:idx_case_lines_order,priority:1" json:"case_id"`
	SectionCode  string    `gorm:"type:varchar(20);not null;index:idx_case_lines_order,priority:2" json:"section_code"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	DisplayOrder int       `gorm:"not null;default:0;index:idx_case_lines_order,priority:3" json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CaseLine) TableName() string {
	return "case_lines"
}
