package repository

import (
	"errors"

	"go-lab-case-tracker/internal/domain/entity"
	domainRepo "go-lab-case-tracker/internal/domain/repository"

	"gorm.io/gorm"
)

type sectionRepository struct{}

func NewSectionRepository() domainRepo.SectionRepository {
	return &sectionRepository{}
}

func (r *sectionRepository) Create(db *gorm.DB, section *entity.Section) error {
	return db.Create(section).Error
}

func (r *sectionRepository) FindByID(db *gorm.DB, id int64) (*entity.Section, error) {
	var section entity.Section
	err := db.Where("id = ?", id).First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepository) FindByCode(db *gorm.DB, studyType entity.StudyType, code string) (*entity.Section, error) {
	var section entity.Section
	err := db.Where("study_type = ? AND code = ?", studyType, code).First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepository) FindByStudyType(db *gorm.DB, studyType entity.StudyType) ([]entity.Section, error) {
	var sections []entity.Section
	err := db.Where("study_type = ? AND is_active = ?", studyType, true).
		Order("display_order ASC, id ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}
