package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context) ([]User, error)
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)

	CreateDepartment(ctx context.Context, department *Department) error
	ListDepartments(ctx context.Context) ([]Department, error)
	DepartmentExists(ctx context.Context, departmentID uuid.UUID) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, full_name, email, active, created_at)
		VALUES (:id, :full_name, :email, :active, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}

func (r *postgresRepository) ListUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	err := r.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY full_name")
	return users, err
}

func (r *postgresRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND active)", userID)
	return exists, err
}

func (r *postgresRepository) CreateDepartment(ctx context.Context, department *Department) error {
	query := `
		INSERT INTO departments (id, name, active, created_at)
		VALUES (:id, :name, :active, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, department)
	return err
}

func (r *postgresRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	departments := []Department{}
	err := r.db.SelectContext(ctx, &departments, "SELECT * FROM departments ORDER BY name")
	return departments, err
}

func (r *postgresRepository) DepartmentExists(ctx context.Context, departmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM departments WHERE id = $1 AND active)", departmentID)
	return exists, err
}
