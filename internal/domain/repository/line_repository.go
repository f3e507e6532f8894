package repository

import (
	"go-lab-case-tracker/internal/domain/entity"

	"gorm.io/gorm"
)

type LineRepository interface {
	Create(db *gorm.DB, line *entity.Line) error
	FindByID(db *gorm.DB, id int64) (*entity.Line, error)
	FindBySectionAndText(db *gorm.DB, sectionID int64, text string) (*entity.Line, error)
	// FindActiveBySection returns active lines ranked by usage count
	// descending, then explicit display order.
	FindActiveBySection(db *gorm.DB, sectionID int64) ([]entity.Line, error)
	// IncrementUsage bumps usage_count and stamps last_used_at in a single
	// statement so the counter never decreases even under concurrent use.
	IncrementUsage(db *gorm.DB, id int64) (int64, error)
	Deactivate(db *gorm.DB, id int64) error
}
