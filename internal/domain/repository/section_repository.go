package repository

import (
	"go-lab-case-tracker/internal/domain/entity"

	"gorm.io/gorm"
)

type SectionRepository interface {
	Create(db *gorm.DB, section *entity.Section) error
	FindByID(db *gorm.DB, id int64) (*entity.Section, error)
	FindByCode(db *gorm.DB, studyType entity.StudyType, code string) (*entity.Section, error)
	// FindByStudyType returns the active sections in canonical display order.
	FindByStudyType(db *gorm.DB, studyType entity.StudyType) ([]entity.Section, error)
}
