package repository

import (
	"go-lab-case-tracker/internal/domain/entity"
	domainRepo "go-lab-case-tracker/internal/domain/repository"

	"gorm.io/gorm"
)

type caseLineRepository struct{}

func NewCaseLineRepository() domainRepo.CaseLineRepository {
	return &caseLineRepository{}
}

func (r *caseLineRepository) FindByCase(db *gorm.DB, caseID int64) ([]entity.CaseLine, error) {
	var lines []entity.CaseLine
	err := db.Where("case_id = ?", caseID).
		Order("section_code ASC, display_order ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *caseLineRepository) ReplaceForCase(db *gorm.DB, caseID int64, lines []entity.CaseLine) error {
	if err := db.Where("case_id = ?", caseID).Delete(&entity.CaseLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].CaseID = caseID
	}
	return db.Create(&lines).Error
}
