package models

import "time"

// EntityType identifies a synchronized record collection. The enumeration is
// closed; wire values outside it are rejected during push validation.
type EntityType string

const (
	EntityClass      EntityType = "CLASS"
	EntityUser       EntityType = "USER"
	EntityStudent    EntityType = "STUDENT"
	EntityAttendance EntityType = "ATTENDANCE"
	EntityNote       EntityType = "NOTE"
)

// Operation names the mutation a change envelope carries. DELETE and
// VIRTUAL_DELETE are synonyms; both mean soft delete.
type Operation string

const (
	OpCreate        Operation = "CREATE"
	OpUpdate        Operation = "UPDATE"
	OpDelete        Operation = "DELETE"
	OpVirtualDelete Operation = "VIRTUAL_DELETE"
)

// SyncPriority returns the dependency rank used to order a push batch:
// classes before users, users before students, students before attendance
// records and notes. Attendance and notes share a rank; the stable sort keeps
// their submission order. Unknown types sort last and fail validation later.
func SyncPriority(t EntityType) int {
	switch t {
	case EntityClass:
		return 1
	case EntityUser:
		return 2
	case EntityStudent:
		return 3
	case EntityAttendance, EntityNote:
		return 4
	default:
		return 99
	}
}

// ChangeEnvelope is one client-authored mutation submitted for reconciliation.
// UUID is the client's idempotency token; CreatedAt is the client wall clock
// and is informational only.
type ChangeEnvelope struct {
	UUID       string                 `json:"uuid"`
	EntityType EntityType             `json:"entityType"`
	EntityID   string                 `json:"entityId"`
	Operation  Operation              `json:"operation"`
	Payload    map[string]interface{} `json:"payload"`
	CreatedAt  string                 `json:"createdAt,omitempty"`
}

// PushRequest is the push endpoint body.
type PushRequest struct {
	Changes []ChangeEnvelope `json:"changes"`
}

// FailedChange reports a single envelope that could not be applied.
type FailedChange struct {
	UUID  string `json:"uuid"`
	Error string `json:"error"`
}

// PushResult partitions every submitted envelope into processed or failed.
type PushResult struct {
	ProcessedUUIDs []string       `json:"processedUuids"`
	FailedUUIDs    []FailedChange `json:"failedUuids"`
}

// PushResponse is the push endpoint wire shape.
type PushResponse struct {
	Success        bool           `json:"success"`
	ProcessedUUIDs []string       `json:"processedUuids"`
	FailedUUIDs    []FailedChange `json:"failedUuids"`
}

// PullChanges groups changed rows per collection. Tombstoned rows are
// included so clients can converge on deletions.
type PullChanges struct {
	Students   []Student          `json:"students"`
	Attendance []AttendanceRecord `json:"attendance"`
	Notes      []Note             `json:"notes"`
	Classes    []Class            `json:"classes"`
}

// PullResponse carries the changed rows plus the watermark the client must
// use on its next pull.
type PullResponse struct {
	ServerTimestamp time.Time   `json:"serverTimestamp"`
	Changes         PullChanges `json:"changes"`
}
