package repository

import (
	"errors"

	"go-lab-case-tracker/internal/domain/entity"
	domainRepo "go-lab-case-tracker/internal/domain/repository"

	"gorm.io/gorm"
)

type auditRepository struct{}

func NewAuditRepository() domainRepo.AuditRepository {
	return &auditRepository{}
}

func (r *auditRepository) Create(db *gorm.DB, entry *entity.AuditEntry) error {
	return db.Create(entry).Error
}

func (r *auditRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.AuditEntry, int64, error) {
	var total int64
	if err := db.Model(&entity.AuditEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []entity.AuditEntry
	err := db.Preload("Actor.Role").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *auditRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditEntry, error) {
	var entry entity.AuditEntry
	err := db.Preload("Actor.Role").Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
