package repository

import (
	"go-lab-case-tracker/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(db *gorm.DB, entry *entity.AuditEntry) error
	FindAll(db *gorm.DB, limit, offset int) ([]entity.AuditEntry, int64, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditEntry, error)
}
