package dto

import (
	"time"

	"github.com/google/uuid"
)

// Response DTOs

type AuditEntryResponse struct {
	ID          int64                  `json:"id"`
	ActorID     *uuid.UUID             `json:"actor_id,omitempty"`
	ActorName   string                 `json:"actor_name,omitempty"`
	Action      string                 `json:"action"`
	TargetKind  string                 `json:"target_kind,omitempty"`
	TargetID    int64                  `json:"target_id,omitempty"`
	Description string                 `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type AuditListResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
	Total   int64                `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}
