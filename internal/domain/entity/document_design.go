package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentDesign is a named, reusable layout configuration for rendering
// reports of one study type. Config stores only the overrides as serialized
// JSON; keys absent from it fall back to the composer's built-in defaults,
// so designs saved before a schema change stay renderable.
type DocumentDesign struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	StudyType StudyType  `gorm:"type:varchar(30);not null;index" json:"study_type"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	IsDefault bool       `gorm:"not null;default:false" json:"is_default"`
	Config    string     `gorm:"type:text" json:"config,omitempty"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DocumentDesign) TableName() string {
	return "document_designs"
}
