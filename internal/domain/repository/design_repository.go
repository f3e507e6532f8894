package repository

import (
	"go-lab-case-tracker/internal/domain/entity"

	"gorm.io/gorm"
)

type DesignRepository interface {
	Create(db *gorm.DB, design *entity.DocumentDesign) error
	Update(db *gorm.DB, design *entity.DocumentDesign) error
	FindByID(db *gorm.DB, id int64) (*entity.DocumentDesign, error)
	FindByStudyType(db *gorm.DB, studyType entity.StudyType) ([]entity.DocumentDesign, error)
	FindDefault(db *gorm.DB, studyType entity.StudyType) (*entity.DocumentDesign, error)
	// ClearDefault removes the default flag from every design of the study
	// type; run in the same transaction as setting the new default.
	ClearDefault(db *gorm.DB, studyType entity.StudyType) error
}
