package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/farm-labour-exchange/internal/model"
	"github.com/iliyamo/farm-labour-exchange/internal/utils"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrPhoneExists signals a login-key collision at registration. The unique
// index on users.phone spans both roles, so a number registered as a farmer
// cannot register again as a labourer. Wraps ErrConflict for callers that
// only care about the class of failure.
var ErrPhoneExists = fmt.Errorf("%w: phone already registered", ErrConflict)

// Create inserts a user and returns its ID. The password is hashed here so
// no caller ever stores a plain credential.
func (r *UserRepo) Create(ctx context.Context, name, phone, password, role string, cost int) (uint64, error) {
	phone = strings.TrimSpace(phone)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, phone, password_hash, role) VALUES (?,?,?,?)",
		name, phone, hash, role)
	if err != nil {
		// MySQL duplicate-key errors carry code 1062
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrPhoneExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByPhoneAndRole fetches a user by phone scoped to a role. A farmer login
// never matches a labourer record even for the same phone number.
func (r *UserRepo) GetByPhoneAndRole(ctx context.Context, phone, role string) (model.User, error) {
	phone = strings.TrimSpace(phone)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,phone,password_hash,role,created_at FROM users WHERE phone=? AND role=? LIMIT 1",
		phone, role).Scan(&u.ID, &u.Name, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,phone,password_hash,role,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}
