package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parish-registry/registry-backend/pkg/statemachine"
)

var ErrInvalidTransition = errors.New("status transition not allowed")

type Service interface {
	RegisterDocument(ctx context.Context, req RegisterRequest) (*Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, registryType *RegistryType, status *Status) ([]Document, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status Status, actorID uuid.UUID) (*Document, error)
}

type RegisterRequest struct {
	RegistryType       RegistryType
	Title              string
	Description        string
	RegistrationNumber string
	CreatedBy          uuid.UUID
}

type documentService struct {
	repo   Repository
	status *statemachine.Machine
	logger *zap.Logger
}

// manualTransitions covers status changes made directly through the registry
// endpoints. Workflow-driven changes (distributed, in_work, resolved) go
// through the workflow projectors instead.
func manualTransitions() *statemachine.Machine {
	return statemachine.New(map[string][]string{
		string(StatusDraft):      {string(StatusRegistered), string(StatusCancelled)},
		string(StatusRegistered): {string(StatusArchived), string(StatusCancelled)},
		string(StatusResolved):   {string(StatusArchived)},
		string(StatusArchived):   {},
		string(StatusCancelled):  {},
	})
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &documentService{
		repo:   repo,
		status: manualTransitions(),
		logger: logger,
	}
}

func (s *documentService) RegisterDocument(ctx context.Context, req RegisterRequest) (*Document, error) {
	if !req.RegistryType.Valid() {
		return nil, fmt.Errorf("unknown registry type %q", req.RegistryType)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	now := time.Now()
	doc := &Document{
		ID:                 uuid.New(),
		RegistryType:       req.RegistryType,
		Title:              req.Title,
		Description:        req.Description,
		RegistrationNumber: req.RegistrationNumber,
		Status:             StatusRegistered,
		CreatedBy:          req.CreatedBy,
		RegisteredAt:       &now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document registered",
		zap.String("document_id", doc.ID.String()),
		zap.String("registry_type", string(doc.RegistryType)))

	return doc, nil
}

func (s *documentService) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetDocumentByID(ctx, id)
}

func (s *documentService) ListDocuments(ctx context.Context, registryType *RegistryType, status *Status) ([]Document, error) {
	return s.repo.ListDocuments(ctx, registryType, status)
}

func (s *documentService) ChangeStatus(ctx context.Context, id uuid.UUID, status Status, actorID uuid.UUID) (*Document, error) {
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	if !s.status.CanTransition(string(doc.Status), string(status)) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, doc.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status, actorID); err != nil {
		return nil, err
	}

	doc.Status = status
	doc.UpdatedBy = &actorID
	return doc, nil
}
