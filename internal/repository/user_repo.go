package repository

import (
	"context"
	"database/sql"

	"github.com/foodbridge-api/internal/database"
	"github.com/foodbridge-api/internal/models"
)

const userColumns = `id, email, name, role, phone, address, restaurant_name, organization_name,
	status, is_active, created_at, join_date, last_active`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// userRepo is the Postgres implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.Phone, &user.Address,
		&user.RestaurantName, &user.OrganizationName, &user.Status, &user.IsActive,
		&user.CreatedAt, &user.JoinDate, &user.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Role, user.Phone, user.Address,
		user.RestaurantName, user.OrganizationName, user.Status, user.IsActive,
		user.CreatedAt, user.JoinDate, user.LastActive,
	)
	return err
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// List returns all users in insertion order
func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0)
	err := r.StreamAll(ctx, func(u *models.User) error {
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update merges upd into the stored user inside a transaction
func (r *userRepo) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := scanUser(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Apply(upd)

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET email = $2, name = $3, role = $4, phone = $5, address = $6,
			restaurant_name = $7, organization_name = $8, status = $9, is_active = $10,
			last_active = $11
		WHERE id = $1
	`,
		user.ID, user.Email, user.Name, user.Role, user.Phone, user.Address,
		user.RestaurantName, user.OrganizationName, user.Status, user.IsActive,
		user.LastActive,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user; unknown ids are ignored
func (r *userRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// StreamAll streams all users for export (memory efficient)
func (r *userRepo) StreamAll(ctx context.Context, callback func(*models.User) error) error {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return err
		}
		if err := callback(user); err != nil {
			return err
		}
	}

	return rows.Err()
}
