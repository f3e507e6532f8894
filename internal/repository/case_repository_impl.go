package repository

import (
	"errors"

	"go-lab-case-tracker/internal/domain/entity"
	domainRepo "go-lab-case-tracker/internal/domain/repository"

	"gorm.io/gorm"
)

type caseRepository struct{}

func NewCaseRepository() domainRepo.CaseRepository {
	return &caseRepository{}
}

func (r *caseRepository) Create(db *gorm.DB, c *entity.Case) error {
	return db.Create(c).Error
}

func (r *caseRepository) Update(db *gorm.DB, c *entity.Case) error {
	return db.Save(c).Error
}

func (r *caseRepository) FindByID(db *gorm.DB, id int64) (*entity.Case, error) {
	var c entity.Case
	err := db.Preload("Lines").Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) FindByNumber(db *gorm.DB, number string) (*entity.Case, error) {
	var c entity.Case
	err := db.Preload("Lines").Where("number = ?", number).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) FindAll(db *gorm.DB, filter domainRepo.CaseFilter) ([]entity.Case, error) {
	query := db.Model(&entity.Case{})
	if !filter.IncludeDrafts {
		query = query.Where("is_draft = ?", false)
	}
	if filter.StudyType != "" {
		query = query.Where("study_type = ?", filter.StudyType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR patient_ref LIKE ? OR provider_ref LIKE ?", like, like, like)
	}

	var cases []entity.Case
	err := query.Order("intake_date DESC, id DESC").Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *caseRepository) FindLastNumber(db *gorm.DB, pattern string, drafts bool) (string, error) {
	// Longer numbers first: once a sequence passes 9999 the five-digit
	// suffix would sort below 9999 lexicographically.
	var c entity.Case
	err := db.Where("number LIKE ? AND is_draft = ?", pattern, drafts).
		Order("LENGTH(number) DESC, number DESC").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return c.Number, nil
}

func (r *caseRepository) CountByStatus(db *gorm.DB, status entity.CaseStatus) (int64, error) {
	var count int64
	err := db.Model(&entity.Case{}).
		Where("status = ? AND is_draft = ?", status, false).
		Count(&count).Error
	return count, err
}

func (r *caseRepository) CountByStudyType(db *gorm.DB, studyType entity.StudyType) (int64, error) {
	var count int64
	err := db.Model(&entity.Case{}).
		Where("study_type = ? AND is_draft = ?", studyType, false).
		Count(&count).Error
	return count, err
}
