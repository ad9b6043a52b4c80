package repository

import (
	"context"
	"database/sql"

	"github.com/foodbridge-api/internal/database"
	"github.com/foodbridge-api/internal/models"
)

const beneficiaryColumns = `id, name, email, phone, address, family_size, special_needs, notes,
	status, total_meals_received, last_served, added_date`

// beneficiaryRepo is the Postgres implementation of BeneficiaryRepository
type beneficiaryRepo struct {
	db *database.DB
}

// NewBeneficiaryRepo creates a new beneficiary repository
func NewBeneficiaryRepo(db *database.DB) BeneficiaryRepository {
	return &beneficiaryRepo{db: db}
}

func scanBeneficiary(row rowScanner) (*models.Beneficiary, error) {
	var b models.Beneficiary
	err := row.Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.Address, &b.FamilySize, &b.SpecialNeeds,
		&b.Notes, &b.Status, &b.TotalMealsReceived, &b.LastServed, &b.AddedDate,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new beneficiary
func (r *beneficiaryRepo) Create(ctx context.Context, b *models.Beneficiary) error {
	query := `
		INSERT INTO beneficiaries (` + beneficiaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Name, b.Email, b.Phone, b.Address, b.FamilySize, b.SpecialNeeds,
		b.Notes, b.Status, b.TotalMealsReceived, b.LastServed, b.AddedDate,
	)
	return err
}

// GetByID retrieves a beneficiary by ID
func (r *beneficiaryRepo) GetByID(ctx context.Context, id string) (*models.Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE id = $1`

	b, err := scanBeneficiary(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// List returns all beneficiaries in insertion order
func (r *beneficiaryRepo) List(ctx context.Context) ([]*models.Beneficiary, error) {
	beneficiaries := make([]*models.Beneficiary, 0)
	err := r.StreamAll(ctx, func(b *models.Beneficiary) error {
		beneficiaries = append(beneficiaries, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return beneficiaries, nil
}

// Update merges upd into the stored beneficiary inside a transaction
func (r *beneficiaryRepo) Update(ctx context.Context, id string, upd *models.BeneficiaryUpdate) (*models.Beneficiary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE id = $1 FOR UPDATE`
	b, err := scanBeneficiary(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	b.Apply(upd)

	_, err = tx.ExecContext(ctx, `
		UPDATE beneficiaries SET name = $2, email = $3, phone = $4, address = $5, family_size = $6,
			special_needs = $7, notes = $8, status = $9, total_meals_received = $10, last_served = $11
		WHERE id = $1
	`,
		b.ID, b.Name, b.Email, b.Phone, b.Address, b.FamilySize,
		b.SpecialNeeds, b.Notes, b.Status, b.TotalMealsReceived, b.LastServed,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a beneficiary; unknown ids are ignored
func (r *beneficiaryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM beneficiaries WHERE id = $1", id)
	return err
}

// Count returns the total number of beneficiaries
func (r *beneficiaryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM beneficiaries").Scan(&count)
	return count, err
}

// StreamAll streams all beneficiaries for export
func (r *beneficiaryRepo) StreamAll(ctx context.Context, callback func(*models.Beneficiary) error) error {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return err
		}
		if err := callback(b); err != nil {
			return err
		}
	}

	return rows.Err()
}
