package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/evrenos/tour-booking/internal/model"
)

type TourRepo struct{ DB *sql.DB }

func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{DB: db} }

const tourCols = "id,name,description,route_info,boat_name,start_time,max_capacity,price_cents,image_url,created_at"

// Create inserts a tour and returns its ID.
func (r *TourRepo) Create(ctx context.Context, t *model.Tour) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tours (name, description, route_info, boat_name, start_time, max_capacity, price_cents, image_url) VALUES (?,?,?,?,?,?,?,?)",
		t.Name, t.Description, t.RouteInfo, t.BoatName, t.StartTime, t.MaxCapacity, t.PriceCents, t.ImageURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one tour.
func (r *TourRepo) GetByID(ctx context.Context, id uint64) (model.Tour, error) {
	var (
		t     model.Tour
		desc  sql.NullString
		boat  sql.NullString
		image sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+tourCols+" FROM tours WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.Name, &desc, &t.RouteInfo, &boat, &t.StartTime,
			&t.MaxCapacity, &t.PriceCents, &image, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	t.Description, t.BoatName, t.ImageURL = desc.String, boat.String, image.String
	return t, nil
}

// List returns all tours ordered by start time.
func (r *TourRepo) List(ctx context.Context) ([]model.Tour, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+tourCols+" FROM tours ORDER BY start_time")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tours := []model.Tour{}
	for rows.Next() {
		var (
			t     model.Tour
			desc  sql.NullString
			boat  sql.NullString
			image sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &desc, &t.RouteInfo, &boat, &t.StartTime,
			&t.MaxCapacity, &t.PriceCents, &image, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Description, t.BoatName, t.ImageURL = desc.String, boat.String, image.String
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

// Update patches the provided non-zero fields.
func (r *TourRepo) Update(ctx context.Context, id uint64, t model.Tour) error {
	sets := []string{}
	args := []interface{}{}
	if t.Name != "" {
		sets = append(sets, "name=?")
		args = append(args, t.Name)
	}
	if t.Description != "" {
		sets = append(sets, "description=?")
		args = append(args, t.Description)
	}
	if t.RouteInfo != "" {
		sets = append(sets, "route_info=?")
		args = append(args, t.RouteInfo)
	}
	if t.BoatName != "" {
		sets = append(sets, "boat_name=?")
		args = append(args, t.BoatName)
	}
	if !t.StartTime.IsZero() {
		sets = append(sets, "start_time=?")
		args = append(args, t.StartTime)
	}
	if t.MaxCapacity > 0 {
		sets = append(sets, "max_capacity=?")
		args = append(args, t.MaxCapacity)
	}
	if t.PriceCents > 0 {
		sets = append(sets, "price_cents=?")
		args = append(args, t.PriceCents)
	}
	if t.ImageURL != "" {
		sets = append(sets, "image_url=?")
		args = append(args, t.ImageURL)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tours SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a tour. Reservations referencing it block the delete at
// the FK level and surface as ErrConflict.
func (r *TourRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM tours WHERE id=?", id)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1451") {
		return ErrConflict
	}
	return err
}

// ReservedCount sums people_count across all reservations for a tour.
// Availability is max_capacity minus this figure, computed on demand.
func (r *TourRepo) ReservedCount(ctx context.Context, tourID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(people_count),0) FROM reservations WHERE tour_id=?",
		tourID).Scan(&n)
	return n, err
}
