package models

import "time"

// Audit actions recorded for administrative and auth activity.
const (
	AuditActionLogin  = "LOGIN"
	AuditActionLogout = "LOGOUT"
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditLog records one mutating request for traceability.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ActorEmail *string   `db:"actor_email" json:"actor_email,omitempty"`
	ActorRole  *Role     `db:"actor_role" json:"actor_role,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Payload    []byte    `db:"payload" json:"payload,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
