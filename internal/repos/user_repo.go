package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"userapi/internal/domain"
)

type UserRepo struct {
	DB      *sqlx.DB
	Timeout time.Duration
}

func NewUserRepo(db *sqlx.DB, timeout time.Duration) *UserRepo {
	return &UserRepo{DB: db, Timeout: timeout}
}

func (r *UserRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// Users returns every row in storage order. The slice is empty, not nil,
// when the table is empty.
func (r *UserRepo) Users(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	users := []domain.User{}
	err := r.DB.SelectContext(ctx, &users, r.DB.Rebind(`SELECT id,email,password_hash,name,school FROM users`))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ByID returns the zero User with a nil error when no row matches.
func (r *UserRepo) ByID(ctx context.Context, id int64) (domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id,email,password_hash,name,school FROM users WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, nil
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	if err := r.DB.GetContext(ctx, &n, r.DB.Rebind(`SELECT COUNT(*) FROM users WHERE id=?`), id); err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return n > 0, nil
}

// Create inserts a user whose password is already hashed. The email lookup
// and the insert are separate statements; the UNIQUE constraint on email
// settles concurrent creates.
func (r *UserRepo) Create(ctx context.Context, email, hash, name, school string) (domain.CreateResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	if err := r.DB.GetContext(ctx, &n, r.DB.Rebind(`SELECT COUNT(*) FROM users WHERE email=?`), email); err != nil {
		return domain.UserFailure, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return domain.UserExists, nil
	}

	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`INSERT INTO users(email,password_hash,name,school) VALUES(?,?,?,?)`),
		email, hash, name, school)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.UserExists, nil
		}
		return domain.UserFailure, fmt.Errorf("insert user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.UserFailure, fmt.Errorf("insert user: %w", err)
	}
	if affected != 1 {
		return domain.UserFailure, fmt.Errorf("insert user: %d rows affected", affected)
	}
	return domain.UserCreated, nil
}

// Update rewrites email, name and school for id and reports the rows
// affected. It does not check that id exists.
func (r *UserRepo) Update(ctx context.Context, id int64, email, name, school string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE users SET email=?, name=?, school=? WHERE id=?`),
		email, name, school, id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("update user %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM users WHERE id=?`), id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
