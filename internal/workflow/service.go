package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parish-registry/registry-backend/internal/documents"
)

// Directory is the identity lookup consulted before a step is inserted.
type Directory interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	DepartmentExists(ctx context.Context, departmentID uuid.UUID) (bool, error)
}

// Authorizer supplies the two elevated resolve grants. The third grant, an
// addressed pending step, is checked against the store directly.
type Authorizer interface {
	HasBlanketResolvePermission(ctx context.Context, userID uuid.UUID) (bool, error)
	IsDocumentCreator(ctx context.Context, userID, documentID uuid.UUID) (bool, error)
}

type Service interface {
	RouteDocument(ctx context.Context, req RouteRequest) (*WorkflowStep, error)
	ResolveDocument(ctx context.Context, req ResolveRequest) (*ResolveResult, error)
	GetWorkflowHistory(ctx context.Context, documentID uuid.UUID) (*History, error)
}

type RouteRequest struct {
	DocumentID     uuid.UUID
	ActorID        uuid.UUID
	ToUserID       *uuid.UUID
	ToDepartmentID *uuid.UUID
	ParentStepID   *uuid.UUID
	Action         StepAction
	Notes          *string
}

type ResolveRequest struct {
	DocumentID       uuid.UUID
	ActorID          uuid.UUID
	ResolutionStatus ResolutionStatus
	Resolution       *string
	Notes            *string
	WorkflowStepID   *uuid.UUID
}

type ResolveResult struct {
	ResolutionStatus ResolutionStatus `json:"resolution_status"`
	StepsUpdated     int              `json:"steps_updated"`
}

type workflowService struct {
	store     Store
	directory Directory
	authz     Authorizer
	logger    *zap.Logger
}

func NewService(store Store, directory Directory, authz Authorizer, logger *zap.Logger) Service {
	return &workflowService{
		store:     store,
		directory: directory,
		authz:     authz,
		logger:    logger,
	}
}

// RouteDocument validates everything up front, then inserts the pending step
// and persists the projected document status in one transaction.
func (s *workflowService) RouteDocument(ctx context.Context, req RouteRequest) (*WorkflowStep, error) {
	doc, err := s.store.GetDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &NotFoundError{Resource: "document", ID: req.DocumentID.String()}
	}

	if !routingActionAllowed(doc.RegistryType, req.Action) {
		return nil, &ValidationError{Reason: "action " + string(req.Action) + " not allowed for " + string(doc.RegistryType)}
	}
	if req.ToUserID == nil && req.ToDepartmentID == nil {
		return nil, &ValidationError{Reason: "either to_user_id or to_department_id is required"}
	}
	if doc.RegistryType == documents.RegistryGeneral && req.ToUserID == nil {
		return nil, &ValidationError{Reason: "to_user_id is required for the general register"}
	}

	if req.ToUserID != nil {
		exists, err := s.directory.UserExists(ctx, *req.ToUserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &ValidationError{Reason: "to_user_id does not reference an existing user"}
		}
	}
	if req.ToDepartmentID != nil {
		exists, err := s.directory.DepartmentExists(ctx, *req.ToDepartmentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &ValidationError{Reason: "to_department_id does not reference an existing department"}
		}
	}

	if req.ParentStepID != nil {
		parent, err := s.store.GetStep(ctx, *req.ParentStepID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, &NotFoundError{Resource: "workflow step", ID: req.ParentStepID.String()}
		}
		if parent.DocumentID != req.DocumentID {
			return nil, &ValidationError{Reason: "parent_step_id belongs to a different document"}
		}
	}

	now := time.Now()
	step := &WorkflowStep{
		ID:             uuid.New(),
		DocumentID:     req.DocumentID,
		ParentStepID:   req.ParentStepID,
		FromUserID:     req.ActorID,
		ToUserID:       req.ToUserID,
		ToDepartmentID: req.ToDepartmentID,
		Action:         req.Action,
		StepStatus:     StepPending,
		Notes:          req.Notes,
		CreatedAt:      now,
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if err := tx.InsertStep(ctx, step); err != nil {
		tx.Rollback()
		return nil, err
	}

	projector := ProjectorFor(doc.RegistryType)
	if next := projector.OnRoute(doc.Status); next != doc.Status {
		if err := tx.UpdateDocumentStatus(ctx, doc.ID, next, req.ActorID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// The flat registry keeps the last-known assignee on the document.
	if doc.RegistryType == documents.RegistryDocument {
		if err := tx.UpdateDocumentAssignee(ctx, doc.ID, req.ToUserID, req.ToDepartmentID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("document routed",
		zap.String("document_id", req.DocumentID.String()),
		zap.String("step_id", step.ID.String()),
		zap.String("action", string(req.Action)),
		zap.String("actor_id", req.ActorID.String()))

	return step, nil
}

// ResolveDocument completes the targeted pending steps, or synthesizes a
// completed self-resolution step for an elevated actor with none, then
// persists the projected status over the full updated step set.
func (s *workflowService) ResolveDocument(ctx context.Context, req ResolveRequest) (*ResolveResult, error) {
	if !req.ResolutionStatus.Valid() {
		return nil, &ValidationError{Reason: "resolution_status must be approved or rejected"}
	}

	doc, err := s.store.GetDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &NotFoundError{Resource: "document", ID: req.DocumentID.String()}
	}

	pending, err := s.store.FindPendingStepsForUser(ctx, req.DocumentID, req.ActorID)
	if err != nil {
		return nil, err
	}

	authorized := len(pending) > 0
	if !authorized {
		blanket, err := s.authz.HasBlanketResolvePermission(ctx, req.ActorID)
		if err != nil {
			return nil, err
		}
		authorized = blanket
	}
	if !authorized {
		creator, err := s.authz.IsDocumentCreator(ctx, req.ActorID, req.DocumentID)
		if err != nil {
			return nil, err
		}
		authorized = creator
	}
	if !authorized {
		return nil, &AuthorizationError{Reason: "actor may not resolve this document"}
	}

	var targets []WorkflowStep
	synthesize := false
	if req.WorkflowStepID != nil {
		for _, step := range pending {
			if step.ID == *req.WorkflowStepID {
				targets = append(targets, step)
				break
			}
		}
		if len(targets) == 0 {
			return nil, &ValidationError{Reason: "no matching pending step"}
		}
	} else if len(pending) > 0 {
		targets = pending
	} else {
		synthesize = true
	}

	now := time.Now()
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}

	stepsUpdated := 0
	if synthesize {
		actorID := req.ActorID
		resolution := req.ResolutionStatus
		step := &WorkflowStep{
			ID:               uuid.New(),
			DocumentID:       req.DocumentID,
			FromUserID:       actorID,
			ToUserID:         &actorID,
			Action:           s.resolutionAction(doc.RegistryType, req.ResolutionStatus),
			StepStatus:       StepCompleted,
			ResolutionStatus: &resolution,
			Resolution:       req.Resolution,
			Notes:            req.Notes,
			CompletedAt:      &now,
			CreatedAt:        now,
		}
		if err := tx.InsertStep(ctx, step); err != nil {
			tx.Rollback()
			return nil, err
		}
		stepsUpdated = 1
	} else {
		for _, step := range targets {
			err := tx.CompleteStep(ctx, StepCompletion{
				StepID:           step.ID,
				ResolutionStatus: req.ResolutionStatus,
				Resolution:       req.Resolution,
				Notes:            req.Notes,
				CompletedAt:      now,
			})
			if err != nil {
				tx.Rollback()
				return nil, err
			}
			stepsUpdated++
		}
	}

	// Re-read the full step set inside the transaction; the projection must
	// not rely on the pre-mutation view.
	steps, err := tx.ListStepsForDocument(ctx, req.DocumentID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	allCompleted := len(steps) > 0
	for _, step := range steps {
		if step.StepStatus != StepCompleted {
			allCompleted = false
			break
		}
	}

	projector := ProjectorFor(doc.RegistryType)
	if next := projector.OnResolve(doc.Status, allCompleted); next != doc.Status {
		if err := tx.UpdateDocumentStatus(ctx, doc.ID, next, req.ActorID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("document resolution recorded",
		zap.String("document_id", req.DocumentID.String()),
		zap.String("resolution_status", string(req.ResolutionStatus)),
		zap.Int("steps_updated", stepsUpdated),
		zap.String("actor_id", req.ActorID.String()))

	return &ResolveResult{ResolutionStatus: req.ResolutionStatus, StepsUpdated: stepsUpdated}, nil
}

func (s *workflowService) resolutionAction(rt documents.RegistryType, status ResolutionStatus) StepAction {
	if rt == documents.RegistryDocument {
		return ActionResolved
	}
	if status == ResolutionRejected {
		return ActionRejected
	}
	return ActionApproved
}

// GetWorkflowHistory is read-only; it never writes the projection.
func (s *workflowService) GetWorkflowHistory(ctx context.Context, documentID uuid.UUID) (*History, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &NotFoundError{Resource: "document", ID: documentID.String()}
	}

	steps, err := s.store.ListStepsForDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return &History{
		DocumentID:     documentID,
		DocumentStatus: doc.Status,
		Steps:          steps,
		Tree:           BuildForest(steps),
	}, nil
}
