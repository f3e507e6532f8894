package repository

import (
	"errors"

	"go-lab-case-tracker/internal/domain/entity"
	domainRepo "go-lab-case-tracker/internal/domain/repository"

	"gorm.io/gorm"
)

type designRepository struct{}

func NewDesignRepository() domainRepo.DesignRepository {
	return &designRepository{}
}

func (r *designRepository) Create(db *gorm.DB, design *entity.DocumentDesign) error {
	return db.Create(design).Error
}

func (r *designRepository) Update(db *gorm.DB, design *entity.DocumentDesign) error {
	return db.Save(design).Error
}

func (r *designRepository) FindByID(db *gorm.DB, id int64) (*entity.DocumentDesign, error) {
	var design entity.DocumentDesign
	err := db.Where("id = ?", id).First(&design).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &design, nil
}

func (r *designRepository) FindByStudyType(db *gorm.DB, studyType entity.StudyType) ([]entity.DocumentDesign, error) {
	var designs []entity.DocumentDesign
	err := db.Where("study_type = ? AND is_active = ?", studyType, true).
		Order("is_default DESC, name ASC").
		Find(&designs).Error
	if err != nil {
		return nil, err
	}
	return designs, nil
}

func (r *designRepository) FindDefault(db *gorm.DB, studyType entity.StudyType) (*entity.DocumentDesign, error) {
	var design entity.DocumentDesign
	err := db.Where("study_type = ? AND is_default = ? AND is_active = ?", studyType, true, true).
		First(&design).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &design, nil
}

func (r *designRepository) ClearDefault(db *gorm.DB, studyType entity.StudyType) error {
	return db.Model(&entity.DocumentDesign{}).
		Where("study_type = ?", studyType).
		Update("is_default", false).Error
}
