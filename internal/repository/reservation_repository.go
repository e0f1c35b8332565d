package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/evrenos/tour-booking/internal/model"
)

type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationCols = "id,user_id,tour_id,name,nationality,identity_number,phone,people_count,accommodation_address,tour_date,ip_address,mac_address,created_at"

func scanReservation(scan func(dest ...interface{}) error) (model.Reservation, error) {
	var (
		rv  model.Reservation
		ip  sql.NullString
		mac sql.NullString
	)
	err := scan(&rv.ID, &rv.UserID, &rv.TourID, &rv.Name, &rv.Nationality,
		&rv.IdentityNumber, &rv.Phone, &rv.PeopleCount, &rv.AccommodationAddress,
		&rv.TourDate, &ip, &mac, &rv.CreatedAt)
	if err == sql.ErrNoRows {
		return rv, ErrNotFound
	}
	if err != nil {
		return rv, err
	}
	rv.IPAddress, rv.MACAddress = ip.String, mac.String
	return rv, nil
}

// Create inserts a reservation. Identity, IP and MAC fields must already be
// hashed by the caller.
func (r *ReservationRepo) Create(ctx context.Context, rv *model.Reservation) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reservations (user_id, tour_id, name, nationality, identity_number, phone, people_count, accommodation_address, tour_date, ip_address, mac_address) VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		rv.UserID, rv.TourID, rv.Name, rv.Nationality, rv.IdentityNumber, rv.Phone,
		rv.PeopleCount, rv.AccommodationAddress, rv.TourDate, rv.IPAddress, rv.MACAddress)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id=? LIMIT 1", id)
	return scanReservation(row.Scan)
}

func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	return r.list(ctx, "SELECT "+reservationCols+" FROM reservations ORDER BY tour_date DESC")
}

// ListByUser returns the reservations a user submitted.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE user_id=? ORDER BY tour_date DESC", userID)
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Reservation{}
	for rows.Next() {
		rv, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Update patches non-zero reservation fields. Hashed fields must arrive
// pre-hashed.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, rv model.Reservation) error {
	sets := []string{}
	args := []interface{}{}
	if rv.Name != "" {
		sets = append(sets, "name=?")
		args = append(args, rv.Name)
	}
	if rv.Nationality != "" {
		sets = append(sets, "nationality=?")
		args = append(args, rv.Nationality)
	}
	if rv.IdentityNumber != "" {
		sets = append(sets, "identity_number=?")
		args = append(args, rv.IdentityNumber)
	}
	if rv.Phone != "" {
		sets = append(sets, "phone=?")
		args = append(args, rv.Phone)
	}
	if rv.PeopleCount > 0 {
		sets = append(sets, "people_count=?")
		args = append(args, rv.PeopleCount)
	}
	if rv.AccommodationAddress != "" {
		sets = append(sets, "accommodation_address=?")
		args = append(args, rv.AccommodationAddress)
	}
	if rv.TourID != 0 {
		sets = append(sets, "tour_id=?")
		args = append(args, rv.TourID)
	}
	if !rv.TourDate.IsZero() {
		sets = append(sets, "tour_date=?")
		args = append(args, rv.TourDate)
	}
	if rv.MACAddress != "" {
		sets = append(sets, "mac_address=?")
		args = append(args, rv.MACAddress)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reservations SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	return err
}
