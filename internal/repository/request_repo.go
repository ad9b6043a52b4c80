package repository

import (
	"context"
	"database/sql"

	"github.com/foodbridge-api/internal/database"
	"github.com/foodbridge-api/internal/models"
)

const requestColumns = `id, donation_id, title, donor, donor_phone, donor_email, quantity,
	pickup_time, pickup_address, notes, estimated_beneficiaries, status, cancel_reason,
	request_date, activist_id, activist_name`

// requestRepo is the Postgres implementation of RequestRepository
type requestRepo struct {
	db *database.DB
}

// NewRequestRepo creates a new pickup request repository
func NewRequestRepo(db *database.DB) RequestRepository {
	return &requestRepo{db: db}
}

func scanRequest(row rowScanner) (*models.PickupRequest, error) {
	var req models.PickupRequest
	var pickupTime sql.NullTime
	err := row.Scan(
		&req.ID, &req.DonationID, &req.Title, &req.Donor, &req.DonorPhone, &req.DonorEmail,
		&req.Quantity, &pickupTime, &req.PickupAddress, &req.Notes, &req.EstimatedBeneficiaries,
		&req.Status, &req.CancelReason, &req.RequestDate, &req.ActivistID, &req.ActivistName,
	)
	if err != nil {
		return nil, err
	}
	if pickupTime.Valid {
		req.PickupTime = pickupTime.Time
	}
	return &req, nil
}

const insertRequestQuery = `
	INSERT INTO pickup_requests (` + requestColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

func requestArgs(req *models.PickupRequest) []any {
	return []any{
		req.ID, req.DonationID, req.Title, req.Donor, req.DonorPhone, req.DonorEmail,
		req.Quantity, nullTime(req.PickupTime), req.PickupAddress, req.Notes, req.EstimatedBeneficiaries,
		req.Status, req.CancelReason, req.RequestDate, req.ActivistID, req.ActivistName,
	}
}

// Create inserts a new pickup request
func (r *requestRepo) Create(ctx context.Context, req *models.PickupRequest) error {
	_, err := r.db.ExecContext(ctx, insertRequestQuery, requestArgs(req)...)
	return err
}

// CreateWithClaim inserts the request and claims the donation in one transaction
func (r *requestRepo) CreateWithClaim(ctx context.Context, req *models.PickupRequest, claim models.DonationClaim) (*models.Donation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertRequestQuery, requestArgs(req)...); err != nil {
		return nil, err
	}

	donation, err := updateDonationTx(ctx, tx, claim.DonationID, claim.Update())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return donation, nil
}

// GetByID retrieves a pickup request by ID
func (r *requestRepo) GetByID(ctx context.Context, id string) (*models.PickupRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE id = $1`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return req, err
}

// List returns all pickup requests in insertion order
func (r *requestRepo) List(ctx context.Context) ([]*models.PickupRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pickup_requests ORDER BY seq`
	return r.query(ctx, query)
}

// ListByOwner returns the pickup requests made by activistID
func (r *requestRepo) ListByOwner(ctx context.Context, activistID string) ([]*models.PickupRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE activist_id = $1 ORDER BY seq`
	return r.query(ctx, query, activistID)
}

func (r *requestRepo) query(ctx context.Context, query string, args ...any) ([]*models.PickupRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*models.PickupRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Update merges upd into the stored request inside a transaction
func (r *requestRepo) Update(ctx context.Context, id string, upd *models.PickupRequestUpdate) (*models.PickupRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE id = $1 FOR UPDATE`
	req, err := scanRequest(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	req.Apply(upd)

	_, err = tx.ExecContext(ctx, `
		UPDATE pickup_requests SET status = $2, cancel_reason = $3, pickup_time = $4,
			pickup_address = $5, notes = $6, estimated_beneficiaries = $7
		WHERE id = $1
	`,
		req.ID, req.Status, req.CancelReason, nullTime(req.PickupTime),
		req.PickupAddress, req.Notes, req.EstimatedBeneficiaries,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

// Delete removes a pickup request; unknown ids are ignored
func (r *requestRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM pickup_requests WHERE id = $1", id)
	return err
}

// Count returns the total number of pickup requests
func (r *requestRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pickup_requests").Scan(&count)
	return count, err
}

// StreamAll streams all pickup requests for export
func (r *requestRepo) StreamAll(ctx context.Context, callback func(*models.PickupRequest) error) error {
	query := `SELECT ` + requestColumns + ` FROM pickup_requests ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return err
		}
		if err := callback(req); err != nil {
			return err
		}
	}

	return rows.Err()
}
