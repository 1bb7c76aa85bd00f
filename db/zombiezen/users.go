package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/credenzahq/credenza/db"
	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const userColumns = `id, email, name, password, roles, avatar, avatar_source,
	verified_at, two_factor_secret, two_factor_enabled_at, created, updated`

// newUserFromStmt creates a User struct from a SQLite statement
func newUserFromStmt(stmt *sqlite.Stmt) (*db.User, error) {
	verifiedAt, err := db.TimeParse(stmt.GetText("verified_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing verified_at time: %w", err)
	}
	enabledAt, err := db.TimeParse(stmt.GetText("two_factor_enabled_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing two_factor_enabled_at time: %w", err)
	}
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}
	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	var roles []string
	if raw := stmt.GetText("roles"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &roles); err != nil {
			return nil, fmt.Errorf("error parsing roles: %w", err)
		}
	}

	return &db.User{
		ID:                 stmt.GetText("id"),
		Email:              stmt.GetText("email"),
		Name:               stmt.GetText("name"),
		Password:           stmt.GetText("password"),
		Roles:              roles,
		Avatar:             stmt.GetText("avatar"),
		AvatarSource:       stmt.GetText("avatar_source"),
		VerifiedAt:         verifiedAt,
		TwoFactorSecret:    stmt.GetText("two_factor_secret"),
		TwoFactorEnabledAt: enabledAt,
		Created:            created,
		Updated:            updated,
	}, nil
}

func rolesJSON(roles []string) (string, error) {
	if roles == nil {
		roles = []string{}
	}
	raw, err := json.Marshal(roles)
	if err != nil {
		return "", fmt.Errorf("error encoding roles: %w", err)
	}
	return string(raw), nil
}

// GetUserByEmail retrieves a user by email address.
// A nil user with nil error indicates no matching record was found.
func (d *Db) GetUserByEmail(email string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND email != '' LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{email},
		})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (d *Db) GetUserById(id string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{id},
		})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUserWithPassword inserts a new local user. The unique index on email
// enforces insert-or-fail: a duplicate registration returns
// db.ErrConstraintUnique instead of racing a prior existence check.
func (d *Db) CreateUserWithPassword(user db.User) (*db.User, error) {
	return d.createUser(user, time.Time{})
}

// CreateUserWithOauth2 inserts a new user resolved from an OAuth profile.
// Provider-asserted emails are trusted as pre-verified.
func (d *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	var verifiedAt time.Time
	if user.Email != "" {
		verifiedAt = time.Now()
	}
	return d.createUser(user, verifiedAt)
}

func (d *Db) createUser(user db.User, verifiedAt time.Time) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	roles, err := rolesJSON(user.Roles)
	if err != nil {
		return nil, err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	var created *db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, name, password, roles, avatar, avatar_source, verified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				user.ID, user.Email, user.Name, user.Password, roles,
				user.Avatar, user.AvatarSource, db.TimeFormat(verifiedAt),
			},
		})
	if err != nil {
		if isConstraintUnique(err) {
			return nil, db.ErrConstraintUnique
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (d *Db) UpdatePassword(userId string, newPassword string) error {
	return d.updateUser(userId,
		`UPDATE users SET password = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		newPassword, userId)
}

func (d *Db) VerifyEmail(userId string) error {
	return d.updateUser(userId,
		`UPDATE users SET verified_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		userId)
}

// UpdateSocialAvatar carries its overwrite rule in the WHERE clause: an
// uploaded avatar wins over whatever the provider sends. Zero affected rows
// is a kept avatar, not an error.
func (d *Db) UpdateSocialAvatar(userId string, avatar string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users SET avatar = ?, avatar_source = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ? AND (avatar = '' OR avatar_source = ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{avatar, db.AvatarSourceSocial, userId, db.AvatarSourceSocial},
		})
	if err != nil {
		return fmt.Errorf("failed to update avatar for user %s: %w", userId, err)
	}
	return nil
}

// SaveTwoFactorSecret stores a fresh encrypted secret in the pending state.
// Any previously enabled state is cleared so re-running setup always starts
// the confirmation over.
func (d *Db) SaveTwoFactorSecret(userId string, secretEncrypted string) error {
	return d.updateUser(userId,
		`UPDATE users SET two_factor_secret = ?, two_factor_enabled_at = '',
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		secretEncrypted, userId)
}

func (d *Db) EnableTwoFactor(userId string) error {
	return d.updateUser(userId,
		`UPDATE users SET two_factor_enabled_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ? AND two_factor_secret != ''`,
		userId)
}

func (d *Db) DisableTwoFactor(userId string) error {
	return d.updateUser(userId,
		`UPDATE users SET two_factor_secret = '', two_factor_enabled_at = '',
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		userId)
}

func (d *Db) updateUser(userId, query string, args ...interface{}) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args})
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", userId, err)
	}
	if conn.Changes() == 0 {
		return db.ErrNotFound
	}
	return nil
}
