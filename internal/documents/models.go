package documents

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft       Status = "draft"
	StatusRegistered  Status = "registered"
	StatusInWork      Status = "in_work"
	StatusDistributed Status = "distributed"
	StatusResolved    Status = "resolved"
	StatusArchived    Status = "archived"
	StatusCancelled   Status = "cancelled"
)

// RegistryType selects which workflow rules apply to a document. The document
// registry is the flat variant; the general register models explicit step
// completion and a step tree.
type RegistryType string

const (
	RegistryDocument RegistryType = "document_registry"
	RegistryGeneral  RegistryType = "general_register"
)

func (rt RegistryType) Valid() bool {
	return rt == RegistryDocument || rt == RegistryGeneral
}

type Document struct {
	ID                   uuid.UUID    `json:"id" db:"id"`
	RegistryType         RegistryType `json:"registry_type" db:"registry_type"`
	Title                string       `json:"title" db:"title"`
	Description          string       `json:"description" db:"description"`
	RegistrationNumber   string       `json:"registration_number" db:"registration_number"`
	Status               Status       `json:"status" db:"status"`
	AssignedUserID       *uuid.UUID   `json:"assigned_user_id,omitempty" db:"assigned_user_id"`
	AssignedDepartmentID *uuid.UUID   `json:"assigned_department_id,omitempty" db:"assigned_department_id"`
	CreatedBy            uuid.UUID    `json:"created_by" db:"created_by"`
	UpdatedBy            *uuid.UUID   `json:"updated_by,omitempty" db:"updated_by"`
	RegisteredAt         *time.Time   `json:"registered_at,omitempty" db:"registered_at"`
	CreatedAt            time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at" db:"updated_at"`
}
