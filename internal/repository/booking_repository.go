package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/evrenos/tour-booking/internal/model"
)

// BookingRepo persists booking records. Status changes go through dedicated
// methods so the lifecycle manager controls transitions; Update only patches
// commercial fields.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = "id,tour_id,guest_id,agency_id,total_amount_cents,advance_payment_cents,remaining_amount_cents,status,payment_intent_id,booking_date,created_at,updated_at"

func scanBooking(scan func(dest ...interface{}) error) (model.Booking, error) {
	var (
		b        model.Booking
		agencyID sql.NullInt64
		intentID sql.NullString
	)
	err := scan(&b.ID, &b.TourID, &b.GuestID, &agencyID, &b.TotalAmountCents,
		&b.AdvancePaymentCents, &b.RemainingAmountCents, &b.Status, &intentID,
		&b.BookingDate, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	if err != nil {
		return b, err
	}
	if agencyID.Valid {
		v := uint64(agencyID.Int64)
		b.AgencyID = &v
	}
	if intentID.Valid {
		b.PaymentIntentID = &intentID.String
	}
	return b, nil
}

// Create inserts a booking with status pending and populates the generated
// id and timestamps on the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	var agencyID interface{}
	if b.AgencyID != nil {
		agencyID = *b.AgencyID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookings (tour_id, guest_id, agency_id, total_amount_cents, advance_payment_cents, remaining_amount_cents, status, booking_date) VALUES (?,?,?,?,?,?,?,?)",
		b.TourID, b.GuestID, agencyID, b.TotalAmountCents, b.AdvancePaymentCents,
		b.RemainingAmountCents, model.BookingPending, b.BookingDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*b = stored
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id)
	return scanBooking(row.Scan)
}

// ListByGuest returns a guest's bookings, optionally filtered by status.
func (r *BookingRepo) ListByGuest(ctx context.Context, guestID uint64, status string) ([]model.Booking, error) {
	q := "SELECT " + bookingCols + " FROM bookings WHERE guest_id=?"
	args := []interface{}{guestID}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY booking_date DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatus flips a booking's status.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetPaymentIntent records the gateway intent id after a successful
// payment-intent creation.
func (r *BookingRepo) SetPaymentIntent(ctx context.Context, id uint64, intentID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET payment_intent_id=? WHERE id=?", intentID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// BookingPatch carries optional field updates for a booking. Nil pointers
// leave the column untouched.
type BookingPatch struct {
	TourID               *uint64    `json:"tour_id"`
	GuestID              *uint64    `json:"guest_id"`
	AgencyID             *uint64    `json:"agency_id"`
	TotalAmountCents     *int64     `json:"total_amount_cents"`
	AdvancePaymentCents  *int64     `json:"advance_payment_cents"`
	RemainingAmountCents *int64     `json:"remaining_amount_cents"`
	BookingDate          *time.Time `json:"booking_date"`
}

// Update applies a partial patch and returns the fresh row.
func (r *BookingRepo) Update(ctx context.Context, id uint64, p BookingPatch) (model.Booking, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, v interface{}) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if p.TourID != nil {
		add("tour_id", *p.TourID)
	}
	if p.GuestID != nil {
		add("guest_id", *p.GuestID)
	}
	if p.AgencyID != nil {
		add("agency_id", *p.AgencyID)
	}
	if p.TotalAmountCents != nil {
		add("total_amount_cents", *p.TotalAmountCents)
	}
	if p.AdvancePaymentCents != nil {
		add("advance_payment_cents", *p.AdvancePaymentCents)
	}
	if p.RemainingAmountCents != nil {
		add("remaining_amount_cents", *p.RemainingAmountCents)
	}
	if p.BookingDate != nil {
		add("booking_date", *p.BookingDate)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE bookings SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return model.Booking{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a booking. Idempotent: deleting an absent row succeeds.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
	return err
}

// ExpireStalePending cancels pending bookings whose booking date passed more
// than the given grace period ago. Returns the number of rows cancelled.
func (r *BookingRepo) ExpireStalePending(ctx context.Context, grace time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-grace)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE status=? AND booking_date < ?",
		model.BookingCancelled, model.BookingPending, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
