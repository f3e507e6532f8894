package repository

import (
	"go-lab-case-tracker/internal/domain/entity"

	"gorm.io/gorm"
)

// CaseFilter narrows case listings. Draft cases are always excluded unless
// IncludeDrafts is set.
type CaseFilter struct {
	StudyType     entity.StudyType
	Status        entity.CaseStatus
	Search        string
	IncludeDrafts bool
}

type CaseRepository interface {
	Create(db *gorm.DB, c *entity.Case) error
	Update(db *gorm.DB, c *entity.Case) error
	FindByID(db *gorm.DB, id int64) (*entity.Case, error)
	FindByNumber(db *gorm.DB, number string) (*entity.Case, error)
	FindAll(db *gorm.DB, filter CaseFilter) ([]entity.Case, error)
	// FindLastNumber returns the highest case number matching the SQL LIKE
	// pattern among non-draft (or draft-only, when drafts is true) cases,
	// or "" when none exists.
	FindLastNumber(db *gorm.DB, pattern string, drafts bool) (string, error)
	CountByStatus(db *gorm.DB, status entity.CaseStatus) (int64, error)
	CountByStudyType(db *gorm.DB, studyType entity.StudyType) (int64, error)
}
