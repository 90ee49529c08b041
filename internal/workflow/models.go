package workflow

import (
	"time"

	"github.com/google/uuid"

	"parish-registry/registry-backend/internal/documents"
)

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCompleted StepStatus = "completed"
)

type ResolutionStatus string

const (
	ResolutionApproved ResolutionStatus = "approved"
	ResolutionRejected ResolutionStatus = "rejected"
)

func (rs ResolutionStatus) Valid() bool {
	return rs == ResolutionApproved || rs == ResolutionRejected
}

type StepAction string

const (
	ActionSent      StepAction = "sent"
	ActionReceived  StepAction = "received"
	ActionResolved  StepAction = "resolved"
	ActionReturned  StepAction = "returned"
	ActionApproved  StepAction = "approved"
	ActionRejected  StepAction = "rejected"
	ActionForwarded StepAction = "forwarded"
)

// routingActions is the per-variant vocabulary accepted by RouteDocument.
// Resolution actions (approved/rejected, and resolved for the flat registry)
// are only ever written by ResolveDocument.
var routingActions = map[documents.RegistryType][]StepAction{
	documents.RegistryDocument: {ActionSent, ActionReceived, ActionReturned},
	documents.RegistryGeneral:  {ActionSent, ActionForwarded, ActionReturned},
}

func routingActionAllowed(rt documents.RegistryType, action StepAction) bool {
	for _, a := range routingActions[rt] {
		if a == action {
			return true
		}
	}
	return false
}

// WorkflowStep is one immutable handoff or resolution record. Only
// step_status, resolution_status, resolution, notes and completed_at ever
// change after insert, and only once, at completion time.
type WorkflowStep struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	DocumentID       uuid.UUID         `json:"document_id" db:"document_id"`
	ParentStepID     *uuid.UUID        `json:"parent_step_id,omitempty" db:"parent_step_id"`
	FromUserID       uuid.UUID         `json:"from_user_id" db:"from_user_id"`
	ToUserID         *uuid.UUID        `json:"to_user_id,omitempty" db:"to_user_id"`
	ToDepartmentID   *uuid.UUID        `json:"to_department_id,omitempty" db:"to_department_id"`
	Action           StepAction        `json:"action" db:"action"`
	StepStatus       StepStatus        `json:"step_status" db:"step_status"`
	ResolutionStatus *ResolutionStatus `json:"resolution_status,omitempty" db:"resolution_status"`
	Resolution       *string           `json:"resolution,omitempty" db:"resolution"`
	Notes            *string           `json:"notes,omitempty" db:"notes"`
	IsExpired        bool              `json:"is_expired" db:"is_expired"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
}

// StepCompletion enumerates exactly the fields a completion is permitted to
// write. The store rejects it for any step that is not currently pending.
type StepCompletion struct {
	StepID           uuid.UUID
	ResolutionStatus ResolutionStatus
	Resolution       *string
	Notes            *string
	CompletedAt      time.Time
}

// StepTreeNode annotates a step with its direct children.
type StepTreeNode struct {
	WorkflowStep
	Children []*StepTreeNode `json:"children"`
}

// History is the read model returned by GetWorkflowHistory. Steps is the flat
// log, newest first; Tree holds the same steps partitioned into roots and
// children.
type History struct {
	DocumentID     uuid.UUID        `json:"document_id"`
	DocumentStatus documents.Status `json:"document_status"`
	Steps          []WorkflowStep   `json:"steps"`
	Tree           []*StepTreeNode  `json:"tree"`
}
