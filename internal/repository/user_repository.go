package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/evrenos/tour-booking/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,password_hash,name,phone,role,password_reset_token,password_reset_expires,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u        model.User
		phone    sql.NullString
		resetTok sql.NullString
		resetExp sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &phone, &u.Role,
		&resetTok, &resetExp, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	if err != nil {
		return u, err
	}
	u.Phone = phone.String
	if resetTok.Valid {
		u.PasswordResetToken = &resetTok.String
	}
	if resetExp.Valid {
		u.PasswordResetExpires = &resetExp.Time
	}
	return u, nil
}

// Create inserts a user with an already-hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, name, phone, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, phone, role) VALUES (?,?,?,?,?)",
		email, passwordHash, name, phone, role)
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

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []model.User{}
	for rows.Next() {
		var (
			u        model.User
			phone    sql.NullString
			resetTok sql.NullString
			resetExp sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &phone, &u.Role,
			&resetTok, &resetExp, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Phone = phone.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile patches name/phone/email; empty fields are left unchanged.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone, email string) error {
	sets := []string{}
	args := []interface{}{}
	if name != "" {
		sets = append(sets, "name=?")
		args = append(args, name)
	}
	if phone != "" {
		sets = append(sets, "phone=?")
		args = append(args, phone)
	}
	if email != "" {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(email)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return requireRow(res)
}

// UpdateRole reassigns a user's role. Callers validate the role name.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdatePassword replaces the stored hash and clears any reset token.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, password_reset_token=NULL, password_reset_expires=NULL WHERE id=?",
		passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetResetToken stores a hashed password-reset token with its expiry.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, tokenHash string, exp time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_reset_token=?, password_reset_expires=? WHERE id=?",
		tokenHash, exp, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ClearResetToken rolls back an issued reset token, e.g. after a failed
// email send.
func (r *UserRepo) ClearResetToken(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_reset_token=NULL, password_reset_expires=NULL WHERE id=?", id)
	return err
}

// GetByResetToken resolves a non-expired reset token hash to its user.
func (r *UserRepo) GetByResetToken(ctx context.Context, tokenHash string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE password_reset_token=? AND password_reset_expires > UTC_TIMESTAMP() LIMIT 1",
		tokenHash))
}

// PurgeExpiredResetTokens clears reset tokens past their expiry and returns
// how many rows were touched. Used by the maintenance sweeper.
func (r *UserRepo) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_reset_token=NULL, password_reset_expires=NULL WHERE password_reset_token IS NOT NULL AND password_reset_expires <= UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a user row. Deleting an absent user is not an error.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

// requireRow maps a zero-row UPDATE to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
