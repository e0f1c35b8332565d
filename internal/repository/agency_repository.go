package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/evrenos/tour-booking/internal/model"
)

type AgencyRepo struct{ DB *sql.DB }

func NewAgencyRepo(db *sql.DB) *AgencyRepo { return &AgencyRepo{DB: db} }

const agencyCols = "id,name,contact_person,phone_number,email,tax_number,address,created_at,updated_at"

func (r *AgencyRepo) Create(ctx context.Context, a *model.Agency) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO agencies (name, contact_person, phone_number, email, tax_number, address) VALUES (?,?,?,?,?,?)",
		a.Name, a.ContactPerson, a.PhoneNumber, strings.ToLower(a.Email), a.TaxNumber, a.Address)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *AgencyRepo) GetByID(ctx context.Context, id uint64) (model.Agency, error) {
	var a model.Agency
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+agencyCols+" FROM agencies WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.Name, &a.ContactPerson, &a.PhoneNumber, &a.Email,
			&a.TaxNumber, &a.Address, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

func (r *AgencyRepo) List(ctx context.Context) ([]model.Agency, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+agencyCols+" FROM agencies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	agencies := []model.Agency{}
	for rows.Next() {
		var a model.Agency
		if err := rows.Scan(&a.ID, &a.Name, &a.ContactPerson, &a.PhoneNumber, &a.Email,
			&a.TaxNumber, &a.Address, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		agencies = append(agencies, a)
	}
	return agencies, rows.Err()
}

func (r *AgencyRepo) Update(ctx context.Context, id uint64, a model.Agency) error {
	sets := []string{}
	args := []interface{}{}
	if a.Name != "" {
		sets = append(sets, "name=?")
		args = append(args, a.Name)
	}
	if a.ContactPerson != "" {
		sets = append(sets, "contact_person=?")
		args = append(args, a.ContactPerson)
	}
	if a.PhoneNumber != "" {
		sets = append(sets, "phone_number=?")
		args = append(args, a.PhoneNumber)
	}
	if a.Email != "" {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(a.Email))
	}
	if a.TaxNumber != "" {
		sets = append(sets, "tax_number=?")
		args = append(args, a.TaxNumber)
	}
	if a.Address != "" {
		sets = append(sets, "address=?")
		args = append(args, a.Address)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE agencies SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *AgencyRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM agencies WHERE id=?", id)
	return err
}
