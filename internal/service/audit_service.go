package service

import (
	"fmt"

	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes append-only audit entries. Callers pass their open
// transaction so the entry commits atomically with the change it records.
type AuditService interface {
	Record(tx *gorm.DB, actorID *uuid.UUID, action, targetKind string, targetID int64, description string) error
	RecordTransition(tx *gorm.DB, actorID *uuid.UUID, c *entity.Case, from, to entity.CaseStatus) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(tx *gorm.DB, actorID *uuid.UUID, action, targetKind string, targetID int64, description string) error {
	return s.record(tx, actorID, action, targetKind, targetID, description, nil)
}

// RecordTransition writes the lifecycle transition entry for a case, keeping
// the old and new states machine-readable in the entry metadata.
func (s *auditService) RecordTransition(tx *gorm.DB, actorID *uuid.UUID, c *entity.Case, from, to entity.CaseStatus) error {
	description := fmt.Sprintf("Case %s: %s → %s", c.Number, from, to)
	metadata := entity.JSON{
		"from": string(from),
		"to":   string(to),
	}
	return s.record(tx, actorID, entity.AuditActionCaseStatus, entity.Case{}.TableName(), c.ID, description, metadata)
}

func (s *auditService) record(tx *gorm.DB, actorID *uuid.UUID, action, targetKind string, targetID int64, description string, metadata entity.JSON) error {
	entry := &entity.AuditEntry{
		ActorID:     actorID,
		Action:      action,
		TargetKind:  targetKind,
		TargetID:    targetID,
		Description: description,
		Metadata:    metadata,
	}

	if err := s.auditRepo.Create(tx, entry); err != nil {
		s.log.Warnf("Failed to create audit entry: %+v", err)
		return err
	}

	return nil
}
