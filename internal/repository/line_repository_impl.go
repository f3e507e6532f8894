package repository

import (
	"errors"
	"time"

	"go-lab-case-tracker/internal/domain/entity"
	domainRepo "go-lab-case-tracker/internal/domain/repository"

	"gorm.io/gorm"
)

type lineRepository struct{}

func NewLineRepository() domainRepo.LineRepository {
	return &lineRepository{}
}

func (r *lineRepository) Create(db *gorm.DB, line *entity.Line) error {
	return db.Create(line).Error
}

func (r *lineRepository) FindByID(db *gorm.DB, id int64) (*entity.Line, error) {
	var line entity.Line
	err := db.Where("id = ?", id).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *lineRepository) FindBySectionAndText(db *gorm.DB, sectionID int64, text string) (*entity.Line, error) {
	var line entity.Line
	err := db.Where("section_id = ? AND text = ? AND is_active = ?", sectionID, text, true).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *lineRepository) FindActiveBySection(db *gorm.DB, sectionID int64) ([]entity.Line, error) {
	var lines []entity.Line
	err := db.Where("section_id = ? AND is_active = ?", sectionID, true).
		Order("usage_count DESC, display_order ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// IncrementUsage runs a single relative UPDATE so interleaved calls can only
// lose increments, never move the counter backwards.
func (r *lineRepository) IncrementUsage(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.Line{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

func (r *lineRepository) Deactivate(db *gorm.DB, id int64) error {
	return db.Model(&entity.Line{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
