package auditdb

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// AuditLog is one recorded modification.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_log,alias:a"`

	ID        int64           `bun:"id,pk,autoincrement" json:"id"`
	Timestamp time.Time       `bun:"timestamp,notnull" json:"timestamp"`
	Action    string          `bun:"action,notnull" json:"action"`
	TableName string          `bun:"table_name,notnull" json:"table_name"`
	RecordID  *int64          `bun:"record_id" json:"record_id,omitempty"`
	OldValues json.RawMessage `bun:"old_values,type:jsonb,nullzero" json:"old_values,omitempty"`
	NewValues json.RawMessage `bun:"new_values,type:jsonb,nullzero" json:"new_values,omitempty"`
	UserInfo  string          `bun:"user_info" json:"user_info"`
}

// Modification is an audit row enriched with the names of the result it
// touched, when the row still exists.
type Modification struct {
	Timestamp time.Time       `bun:"timestamp" json:"timestamp"`
	Action    string          `bun:"action" json:"action"`
	TableName string          `bun:"table_name" json:"table_name"`
	RecordID  *int64          `bun:"record_id" json:"record_id,omitempty"`
	OldValues json.RawMessage `bun:"old_values" json:"old_values,omitempty"`
	NewValues json.RawMessage `bun:"new_values" json:"new_values,omitempty"`
	UserInfo  string          `bun:"user_info" json:"user_info"`
	FullName  *string         `bun:"full_name" json:"full_name,omitempty"`
	EventName *string         `bun:"event_name" json:"event_name,omitempty"`
	Circuit   *string         `bun:"circuit" json:"circuit,omitempty"`
	Category  *string         `bun:"category" json:"category,omitempty"`
}
