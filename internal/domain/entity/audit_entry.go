package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is an immutable record of a sensitive action. Entries are
// written inside the same transaction as the change they describe and are
// never updated or deleted.
type AuditEntry struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID     *uuid.UUID `gorm:"type:uuid;index:idx_audit_actor_time,priority:1" json:"actor_id,omitempty"`
	Action      string     `gorm:"type:varchar(100);not null;index" json:"action"`
	TargetKind  string     `gorm:"type:varchar(50)" json:"target_kind,omitempty"`
	TargetID    int64      `gorm:"index" json:"target_id,omitempty"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Metadata    JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index:idx_audit_actor_time,priority:2" json:"created_at"`

	// Relationships
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionUserLogin      = "user.login"
	AuditActionUserLogout     = "user.logout"
	AuditActionCaseCreate     = "case.create"
	AuditActionCaseUpdate     = "case.update"
	AuditActionCaseStatus     = "case.status"
	AuditActionLineCreate     = "line.create"
	AuditActionLineDeactivate = "line.deactivate"
	AuditActionDesignCreate   = "design.create"
	AuditActionDesignUpdate   = "design.update"
	AuditActionDesignDefault  = "design.default"
)
