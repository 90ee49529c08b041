package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("document not found")

type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, registryType *RegistryType, status *Status) ([]Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, actorID uuid.UUID) error
	UpdateAssignee(ctx context.Context, id uuid.UUID, userID, departmentID *uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateDocument(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (
			id, registry_type, title, description, registration_number,
			status, assigned_user_id, assigned_department_id, created_by,
			registered_at, created_at, updated_at
		) VALUES (
			:id, :registry_type, :title, :description, :registration_number,
			:status, :assigned_user_id, :assigned_department_id, :created_by,
			:registered_at, :created_at, :updated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, doc)
	return err
}

func (r *postgresRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &doc, err
}

func (r *postgresRepository) ListDocuments(ctx context.Context, registryType *RegistryType, status *Status) ([]Document, error) {
	docs := []Document{}
	query := "SELECT * FROM documents WHERE 1=1"
	var args []interface{}
	argCount := 1

	if registryType != nil {
		query += fmt.Sprintf(" AND registry_type = $%d", argCount)
		args = append(args, *registryType)
		argCount++
	}
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *status)
		argCount++
	}
	query += " ORDER BY created_at DESC, id DESC"

	err := r.db.SelectContext(ctx, &docs, query, args...)
	return docs, err
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, actorID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, updated_by = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		status, actorID, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateAssignee(ctx context.Context, id uuid.UUID, userID, departmentID *uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE documents SET assigned_user_id = $1, assigned_department_id = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		userID, departmentID, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
