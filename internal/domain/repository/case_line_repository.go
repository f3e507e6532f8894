package repository

import (
	"go-lab-case-tracker/internal/domain/entity"

	"gorm.io/gorm"
)

type CaseLineRepository interface {
	FindByCase(db *gorm.DB, caseID int64) ([]entity.CaseLine, error)
	// ReplaceForCase swaps the case's persisted fragment selections for the
	// given set. Callers run it inside the same transaction as the case edit.
	ReplaceForCase(db *gorm.DB, caseID int64, lines []entity.CaseLine) error
}
