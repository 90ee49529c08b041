package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"parish-registry/registry-backend/internal/documents"
)

// Store is the step store plus the two document fields the workflow owns
// (status and the denormalized assignee). Begin returns a Store bound to a
// transaction so a route or resolve call commits as one unit.
type Store interface {
	Begin(ctx context.Context) (Store, error)
	Commit() error
	Rollback() error

	GetDocument(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status documents.Status, actorID uuid.UUID) error
	UpdateDocumentAssignee(ctx context.Context, id uuid.UUID, userID, departmentID *uuid.UUID) error

	InsertStep(ctx context.Context, step *WorkflowStep) error
	GetStep(ctx context.Context, id uuid.UUID) (*WorkflowStep, error)
	ListStepsForDocument(ctx context.Context, documentID uuid.UUID) ([]WorkflowStep, error)
	FindPendingStepsForUser(ctx context.Context, documentID, userID uuid.UUID) ([]WorkflowStep, error)
	CompleteStep(ctx context.Context, completion StepCompletion) error
}

const fkViolation = "23503"

type dbtx interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

type postgresStore struct {
	db dbtx
}

func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Begin(ctx context.Context) (Store, error) {
	db, ok := s.db.(*sqlx.DB)
	if !ok {
		return nil, fmt.Errorf("already in a transaction")
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &postgresStore{db: tx}, nil
}

func (s *postgresStore) Commit() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return fmt.Errorf("cannot commit: not a transaction")
}

func (s *postgresStore) Rollback() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return fmt.Errorf("cannot rollback: not a transaction")
}

func (s *postgresStore) GetDocument(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	var doc documents.Document
	err := s.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &doc, err
}

func (s *postgresStore) UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status documents.Status, actorID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, updated_by = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		status, actorID, id)
	if err != nil {
		return err
	}
	return checkOneRow(res, "document", id)
}

func (s *postgresStore) UpdateDocumentAssignee(ctx context.Context, id uuid.UUID, userID, departmentID *uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET assigned_user_id = $1, assigned_department_id = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		userID, departmentID, id)
	if err != nil {
		return err
	}
	return checkOneRow(res, "document", id)
}

func (s *postgresStore) InsertStep(ctx context.Context, step *WorkflowStep) error {
	query := `
		INSERT INTO workflow_steps (
			id, document_id, parent_step_id, from_user_id, to_user_id,
			to_department_id, action, step_status, resolution_status,
			resolution, notes, is_expired, completed_at, created_at
		) VALUES (
			:id, :document_id, :parent_step_id, :from_user_id, :to_user_id,
			:to_department_id, :action, :step_status, :resolution_status,
			:resolution, :notes, :is_expired, :completed_at, :created_at
		)`
	_, err := s.db.NamedExecContext(ctx, query, step)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == fkViolation {
		return &NotFoundError{Resource: "document", ID: step.DocumentID.String()}
	}
	return err
}

func (s *postgresStore) GetStep(ctx context.Context, id uuid.UUID) (*WorkflowStep, error) {
	var step WorkflowStep
	err := s.db.GetContext(ctx, &step, "SELECT * FROM workflow_steps WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &step, err
}

func (s *postgresStore) ListStepsForDocument(ctx context.Context, documentID uuid.UUID) ([]WorkflowStep, error) {
	steps := []WorkflowStep{}
	err := s.db.SelectContext(ctx, &steps,
		"SELECT * FROM workflow_steps WHERE document_id = $1 ORDER BY created_at DESC, id DESC",
		documentID)
	return steps, err
}

func (s *postgresStore) FindPendingStepsForUser(ctx context.Context, documentID, userID uuid.UUID) ([]WorkflowStep, error) {
	steps := []WorkflowStep{}
	err := s.db.SelectContext(ctx, &steps,
		`SELECT * FROM workflow_steps
		 WHERE document_id = $1 AND to_user_id = $2 AND step_status = 'pending'
		 ORDER BY created_at DESC, id DESC`,
		documentID, userID)
	return steps, err
}

// CompleteStep transitions pending -> completed at most once. The status
// check lives in the WHERE clause so two racing completions cannot both win.
func (s *postgresStore) CompleteStep(ctx context.Context, c StepCompletion) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workflow_steps
		 SET step_status = 'completed', resolution_status = $1, resolution = $2,
		     notes = COALESCE($3, notes), completed_at = $4
		 WHERE id = $5 AND step_status = 'pending'`,
		c.ResolutionStatus, c.Resolution, c.Notes, c.CompletedAt, c.StepID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	// Nothing matched: either the step is gone or it lost the race.
	step, err := s.GetStep(ctx, c.StepID)
	if err != nil {
		return err
	}
	if step == nil {
		return &NotFoundError{Resource: "workflow step", ID: c.StepID.String()}
	}
	return &ConflictError{Reason: fmt.Sprintf("workflow step %s already completed", c.StepID)}
}

func checkOneRow(res sql.Result, resource string, id uuid.UUID) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &NotFoundError{Resource: resource, ID: id.String()}
	}
	return nil
}
