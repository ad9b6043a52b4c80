package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
	apperrors "github.com/foodbridge-api/pkg/errors"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// Export resources
const (
	ResourceDonations     = "donations"
	ResourceRequests      = "requests"
	ResourceUsers         = "users"
	ResourceBeneficiaries = "beneficiaries"
)

// flushEvery is how many records are written between flushes
const flushEvery = 100

type flusher interface {
	Flush()
}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// Export streams resource to w in format and returns the record count.
// Flushes periodically when w supports it.
func (s *exportService) Export(ctx context.Context, w io.Writer, resource, format string) (int, error) {
	s.log.Info().Str("resource", resource).Str("format", format).Msg("Starting export")

	var count int
	var err error

	switch resource {
	case ResourceDonations:
		count, err = exportResource(ctx, w, format, s.repos.Donation.StreamAll, donationCSV)
	case ResourceRequests:
		count, err = exportResource(ctx, w, format, s.repos.Request.StreamAll, nil)
	case ResourceUsers:
		count, err = exportResource(ctx, w, format, s.repos.User.StreamAll, userCSV)
	case ResourceBeneficiaries:
		count, err = exportResource(ctx, w, format, s.repos.Beneficiary.StreamAll, beneficiaryCSV)
	default:
		return 0, apperrors.NewValidationError("unknown resource: " + resource)
	}

	if err != nil {
		s.log.Error().Err(err).Str("resource", resource).Int("count", count).Msg("Export failed")
		return count, err
	}

	s.log.Info().Str("resource", resource).Int("count", count).Msg("Export completed")
	return count, nil
}

// csvTable describes how a record type is written as CSV
type csvTable[T any] struct {
	header []string
	row    func(T) []string
}

func exportResource[T any](ctx context.Context, w io.Writer, format string, stream func(context.Context, func(T) error) error, table *csvTable[T]) (int, error) {
	switch format {
	case FormatNDJSON:
		return streamNDJSON(ctx, w, stream)
	case FormatJSON:
		return streamJSON(ctx, w, stream)
	case FormatCSV:
		if table == nil {
			return 0, apperrors.NewValidationError("csv export is not available for this resource")
		}
		return streamCSV(ctx, w, stream, table)
	default:
		return 0, apperrors.NewValidationError("unsupported format: " + format)
	}
}

func streamNDJSON[T any](ctx context.Context, w io.Writer, stream func(context.Context, func(T) error) error) (int, error) {
	f, _ := w.(flusher)
	count := 0

	err := stream(ctx, func(record T) error {
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
		count++

		if count%flushEvery == 0 && f != nil {
			f.Flush()
		}
		return nil
	})
	return count, err
}

func streamJSON[T any](ctx context.Context, w io.Writer, stream func(context.Context, func(T) error) error) (int, error) {
	if _, err := w.Write([]byte("[")); err != nil {
		return 0, err
	}
	count := 0

	err := stream(ctx, func(record T) error {
		if count > 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		count++
		return nil
	})

	if _, werr := w.Write([]byte("]")); err == nil {
		err = werr
	}
	return count, err
}

func streamCSV[T any](ctx context.Context, w io.Writer, stream func(context.Context, func(T) error) error, table *csvTable[T]) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.header); err != nil {
		return 0, err
	}
	count := 0

	err := stream(ctx, func(record T) error {
		if err := writer.Write(table.row(record)); err != nil {
			return err
		}
		count++
		if count%flushEvery == 0 {
			writer.Flush()
		}
		return nil
	})

	writer.Flush()
	if err == nil {
		err = writer.Error()
	}
	return count, err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var userCSV = &csvTable[*models.User]{
	header: []string{"id", "email", "name", "role", "phone", "status", "is_active", "join_date", "last_active"},
	row: func(u *models.User) []string {
		return []string{
			u.ID,
			u.Email,
			u.Name,
			u.Role,
			u.Phone,
			u.Status,
			strconv.FormatBool(u.IsActive),
			formatTime(u.JoinDate),
			formatTime(u.LastActive),
		}
	},
}

var donationCSV = &csvTable[*models.Donation]{
	header: []string{"id", "title", "donor_id", "donor_name", "food_type", "quantity", "unit", "status", "expiry_date", "pickup_address", "pickup_start", "pickup_end", "dietary_info", "requested_by", "created_at"},
	row: func(d *models.Donation) []string {
		return []string{
			d.ID,
			d.Title,
			d.DonorID,
			d.DonorName,
			d.FoodType,
			strconv.FormatFloat(d.Quantity, 'f', -1, 64),
			d.Unit,
			string(d.Status),
			formatTime(d.ExpiryDate),
			d.PickupAddress,
			d.PickupTime.Start,
			d.PickupTime.End,
			strings.Join(d.DietaryInfo, ";"),
			d.RequestedBy,
			formatTime(d.CreatedAt),
		}
	},
}

var beneficiaryCSV = &csvTable[*models.Beneficiary]{
	header: []string{"id", "name", "email", "phone", "address", "family_size", "status", "total_meals_received", "last_served", "added_date"},
	row: func(b *models.Beneficiary) []string {
		return []string{
			b.ID,
			b.Name,
			b.Email,
			b.Phone,
			b.Address,
			strconv.Itoa(b.FamilySize),
			b.Status,
			strconv.Itoa(b.TotalMealsReceived),
			formatTime(b.LastServed),
			formatTime(b.AddedDate),
		}
	},
}
