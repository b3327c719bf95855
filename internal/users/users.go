package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DaManu123/Mizu-Sushi/internal/auth"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound is returned when a user id does not resolve.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when signup hits an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned for a failed login. Unknown
	// usernames and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	hash, err := hashPassword(nu.Password)
	if err != nil {
		return User{}, err
	}

	role := auth.RoleCustomer
	if nu.Role != "" {
		role, err = auth.ParseRole(nu.Role)
		if err != nil {
			return User{}, err
		}
	}

	u := User{
		Username:  nu.Username,
		FullName:  nu.FullName,
		Role:      role,
		Email:     nu.Email,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}

	err = c.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, full_name, role, email, created_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, u.Username, hash, u.FullName, u.Role, u.Email, u.CreatedAt, u.Active).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

// Authenticate checks a username/password pair against active accounts
// and stamps last_login on success.
func (c *Conf) Authenticate(ctx context.Context, username, password string) (User, error) {
	var (
		u         User
		lastLogin sql.NullTime
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, full_name, role, email, created_at, last_login, active
		FROM users
		WHERE username = $1 AND active = true
	`, username).Scan(&u.ID, &u.Username, &u.passwordHash, &u.FullName, &u.Role, &u.Email, &u.CreatedAt, &lastLogin, &u.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if _, err := c.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, now, u.ID); err != nil {
		return User{}, fmt.Errorf("failed to stamp last login: %w", err)
	}
	u.LastLogin = now
	return u, nil
}

func (c *Conf) LoadUsers(ctx context.Context) ([]User, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, username, full_name, role, email, created_at, last_login, active
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		var (
			u         User
			lastLogin sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Email, &u.CreatedAt, &lastLogin, &u.Active); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if lastLogin.Valid {
			u.LastLogin = lastLogin.Time
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return list, nil
}

// UpdateUser applies the non-nil fields of the edit to the account.
func (c *Conf) UpdateUser(ctx context.Context, userID int, upd UpdateUser) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.Role != nil {
		role, err := auth.ParseRole(*upd.Role)
		if err != nil {
			return err
		}
		add("role", role)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Active != nil {
		add("active", *upd.Active)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Conf) ChangePassword(ctx context.Context, userID int, newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	res, err := c.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Conf) DeleteUser(ctx context.Context, userID int) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportLegacy inserts an account carrying a hash produced by the old
// system. Such hashes are not bcrypt, so the account cannot log in until
// an admin resets its password; existing usernames are left untouched.
func (c *Conf) ImportLegacy(ctx context.Context, username, passwordHash, fullName string, role auth.Role, email string, createdAt time.Time, active bool) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, full_name, role, email, created_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO NOTHING
	`, username, passwordHash, fullName, role, email, createdAt, active)
	if err != nil {
		return fmt.Errorf("failed to import user: %w", err)
	}
	return nil
}

// SeedDefaults creates the stock admin/cashier/customer accounts on an
// empty install so the till is usable out of the box.
func (c *Conf) SeedDefaults(ctx context.Context) error {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []NewUser{
		{Username: "admin", Password: "admin123", FullName: "System Administrator", Role: string(auth.RoleAdmin), Email: "admin@mizusushi.com"},
		{Username: "cashier", Password: "cashier123", FullName: "Main Cashier", Role: string(auth.RoleCashier), Email: "cashier@mizusushi.com"},
		{Username: "customer", Password: "customer123", FullName: "Demo Customer", Role: string(auth.RoleCustomer), Email: "customer@mizusushi.com"},
	}
	for _, nu := range defaults {
		if _, err := c.InsertUser(ctx, nu); err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				continue
			}
			return err
		}
		slog.Info("default user created", slog.String("Username", nu.Username))
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
