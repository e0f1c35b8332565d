package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/evrenos/tour-booking/internal/model"
)

// GuestRepo persists guest records. Sensitive fields (identity number, IP,
// MAC) arrive already encrypted or hashed; this layer never sees plaintext.
type GuestRepo struct{ DB *sql.DB }

func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{DB: db} }

const guestCols = "id,full_name,nationality,identity_number,phone_number,number_of_guests,accommodation_address,tour_date,ip_address,mac_address,created_at"

func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO guests (full_name, nationality, identity_number, phone_number, number_of_guests, accommodation_address, tour_date, ip_address, mac_address) VALUES (?,?,?,?,?,?,?,?,?)",
		g.FullName, g.Nationality, g.IdentityNumber, g.PhoneNumber,
		g.NumberOfGuests, g.AccommodationAddress, g.TourDate, g.IPAddress, g.MACAddress)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (model.Guest, error) {
	var (
		g   model.Guest
		ip  sql.NullString
		mac sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+guestCols+" FROM guests WHERE id=? LIMIT 1", id).
		Scan(&g.ID, &g.FullName, &g.Nationality, &g.IdentityNumber, &g.PhoneNumber,
			&g.NumberOfGuests, &g.AccommodationAddress, &g.TourDate, &ip, &mac, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return g, ErrNotFound
	}
	if err != nil {
		return g, err
	}
	g.IPAddress, g.MACAddress = ip.String, mac.String
	return g, nil
}

func (r *GuestRepo) List(ctx context.Context) ([]model.Guest, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+guestCols+" FROM guests ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	guests := []model.Guest{}
	for rows.Next() {
		var (
			g   model.Guest
			ip  sql.NullString
			mac sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.FullName, &g.Nationality, &g.IdentityNumber, &g.PhoneNumber,
			&g.NumberOfGuests, &g.AccommodationAddress, &g.TourDate, &ip, &mac, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.IPAddress, g.MACAddress = ip.String, mac.String
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

// Update patches non-zero guest fields. IdentityNumber must already be
// encrypted by the caller.
func (r *GuestRepo) Update(ctx context.Context, id uint64, g model.Guest) error {
	sets := []string{}
	args := []interface{}{}
	if g.FullName != "" {
		sets = append(sets, "full_name=?")
		args = append(args, g.FullName)
	}
	if g.Nationality != "" {
		sets = append(sets, "nationality=?")
		args = append(args, g.Nationality)
	}
	if g.IdentityNumber != "" {
		sets = append(sets, "identity_number=?")
		args = append(args, g.IdentityNumber)
	}
	if g.PhoneNumber != "" {
		sets = append(sets, "phone_number=?")
		args = append(args, g.PhoneNumber)
	}
	if g.NumberOfGuests > 0 {
		sets = append(sets, "number_of_guests=?")
		args = append(args, g.NumberOfGuests)
	}
	if g.AccommodationAddress != "" {
		sets = append(sets, "accommodation_address=?")
		args = append(args, g.AccommodationAddress)
	}
	if !g.TourDate.IsZero() {
		sets = append(sets, "tour_date=?")
		args = append(args, g.TourDate)
	}
	if g.MACAddress != "" {
		sets = append(sets, "mac_address=?")
		args = append(args, g.MACAddress)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE guests SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *GuestRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM guests WHERE id=?", id)
	return err
}
