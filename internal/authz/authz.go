// Package authz answers the two elevated-grant questions the workflow
// service asks before accepting a resolution.
package authz

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PermResolveAny lets a user resolve any document regardless of pending
// steps or authorship.
const PermResolveAny = "workflow.resolve_any"

type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

func (s *Service) HasBlanketResolvePermission(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM user_permissions WHERE user_id = $1 AND permission = $2)",
		userID, PermResolveAny)
	return exists, err
}

func (s *Service) IsDocumentCreator(ctx context.Context, userID, documentID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1 AND created_by = $2)",
		documentID, userID)
	return exists, err
}

// Grant inserts a permission row; duplicate grants are a no-op.
func (s *Service) Grant(ctx context.Context, userID uuid.UUID, permission string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, permission)
	return err
}
