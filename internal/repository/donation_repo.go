package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/foodbridge-api/internal/database"
	"github.com/foodbridge-api/internal/models"
	"github.com/lib/pq"
)

const donationColumns = `id, donor_id, donor_name, title, description, food_type, quantity, unit,
	expiry_date, pickup_address, pickup_start, pickup_end, status, images, dietary_info,
	special_instructions, created_at, requested_by, activist_name, activist_phone`

// donationRepo is the Postgres implementation of DonationRepository
type donationRepo struct {
	db *database.DB
}

// NewDonationRepo creates a new donation repository
func NewDonationRepo(db *database.DB) DonationRepository {
	return &donationRepo{db: db}
}

func scanDonation(row rowScanner) (*models.Donation, error) {
	var d models.Donation
	var expiry sql.NullTime
	var images, dietary pq.StringArray
	err := row.Scan(
		&d.ID, &d.DonorID, &d.DonorName, &d.Title, &d.Description, &d.FoodType,
		&d.Quantity, &d.Unit, &expiry, &d.PickupAddress, &d.PickupTime.Start,
		&d.PickupTime.End, &d.Status, &images, &dietary, &d.SpecialInstructions,
		&d.CreatedAt, &d.RequestedBy, &d.ActivistName, &d.ActivistPhone,
	)
	if err != nil {
		return nil, err
	}
	if expiry.Valid {
		d.ExpiryDate = expiry.Time
	}
	d.Images = []string(images)
	d.DietaryInfo = []string(dietary)
	return &d, nil
}

// Create inserts a new donation
func (r *donationRepo) Create(ctx context.Context, d *models.Donation) error {
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.DonorID, d.DonorName, d.Title, d.Description, d.FoodType,
		d.Quantity, d.Unit, nullTime(d.ExpiryDate), d.PickupAddress, d.PickupTime.Start,
		d.PickupTime.End, d.Status, textArray(d.Images), textArray(d.DietaryInfo),
		d.SpecialInstructions, d.CreatedAt, d.RequestedBy, d.ActivistName, d.ActivistPhone,
	)
	return err
}

// GetByID retrieves a donation by ID
func (r *donationRepo) GetByID(ctx context.Context, id string) (*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`

	d, err := scanDonation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// List returns donations passing filter in insertion order
func (r *donationRepo) List(ctx context.Context, filter models.DonationFilter) ([]*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE 1=1`
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.FoodType != "" {
		args = append(args, filter.FoodType)
		query += fmt.Sprintf(" AND food_type = $%d", len(args))
	}
	query += " ORDER BY seq"

	return r.query(ctx, query, args...)
}

// ListByOwner returns the donations posted by donorID
func (r *donationRepo) ListByOwner(ctx context.Context, donorID string) ([]*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donor_id = $1 ORDER BY seq`
	return r.query(ctx, query, donorID)
}

func (r *donationRepo) query(ctx context.Context, query string, args ...any) ([]*models.Donation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := make([]*models.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// Update merges upd into the stored donation inside a transaction
func (r *donationRepo) Update(ctx context.Context, id string, upd *models.DonationUpdate) (*models.Donation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	d, err := updateDonationTx(ctx, tx, id, upd)
	if err != nil || d == nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d, nil
}

// updateDonationTx locks, patches and writes back one donation.
// It returns (nil, nil) when the donation does not exist.
func updateDonationTx(ctx context.Context, tx *sql.Tx, id string, upd *models.DonationUpdate) (*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1 FOR UPDATE`
	d, err := scanDonation(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d.Apply(upd)

	_, err = tx.ExecContext(ctx, `
		UPDATE donations SET title = $2, description = $3, food_type = $4, quantity = $5,
			unit = $6, expiry_date = $7, pickup_address = $8, pickup_start = $9, pickup_end = $10,
			status = $11, images = $12, dietary_info = $13, special_instructions = $14,
			requested_by = $15, activist_name = $16, activist_phone = $17
		WHERE id = $1
	`,
		d.ID, d.Title, d.Description, d.FoodType, d.Quantity,
		d.Unit, nullTime(d.ExpiryDate), d.PickupAddress, d.PickupTime.Start, d.PickupTime.End,
		d.Status, textArray(d.Images), textArray(d.DietaryInfo), d.SpecialInstructions,
		d.RequestedBy, d.ActivistName, d.ActivistPhone,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a donation; unknown ids are ignored
func (r *donationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM donations WHERE id = $1", id)
	return err
}

// ExpireBefore marks available donations whose expiry date has passed
func (r *donationRepo) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		UPDATE donations SET status = 'expired'
		WHERE status = 'available' AND expiry_date IS NOT NULL AND expiry_date < $1
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// Count returns the total number of donations
func (r *donationRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM donations").Scan(&count)
	return count, err
}

// StreamAll streams all donations for export
func (r *donationRepo) StreamAll(ctx context.Context, callback func(*models.Donation) error) error {
	query := `SELECT ` + donationColumns + ` FROM donations ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return err
		}
		if err := callback(d); err != nil {
			return err
		}
	}

	return rows.Err()
}

// helper to convert a zero time to NULL
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// textArray binds a string slice as TEXT[]. A nil slice is sent as '{}'
// since the array columns are NOT NULL.
func textArray(s []string) any {
	if s == nil {
		s = []string{}
	}
	return pq.Array(s)
}
