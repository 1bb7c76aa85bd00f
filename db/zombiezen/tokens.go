package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/credenzahq/credenza/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const tokenColumns = `id, user_id, type, token_hash, expires_at, used_at, created`

func newTokenFromStmt(stmt *sqlite.Stmt) (*db.OneTimeToken, error) {
	expiresAt, err := db.TimeParse(stmt.GetText("expires_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing expires_at time: %w", err)
	}
	usedAt, err := db.TimeParse(stmt.GetText("used_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing used_at time: %w", err)
	}
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	return &db.OneTimeToken{
		ID:        stmt.GetInt64("id"),
		UserID:    stmt.GetText("user_id"),
		Type:      stmt.GetText("type"),
		TokenHash: stmt.GetText("token_hash"),
		ExpiresAt: expiresAt,
		UsedAt:    usedAt,
		Created:   created,
	}, nil
}

func (d *Db) CreateToken(token db.OneTimeToken) (*db.OneTimeToken, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var created *db.OneTimeToken
	err = sqlitex.Execute(conn,
		`INSERT INTO user_tokens (user_id, type, token_hash, expires_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+tokenColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newTokenFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				token.UserID, token.Type, token.TokenHash,
				db.TimeFormat(token.ExpiresAt),
			},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	return created, nil
}

// ConsumeToken finds a live token matching (type, hash) and marks it used in
// one UPDATE. The liveness predicate lives in the WHERE clause, so under
// sqlite's single-writer rule two concurrent consumers cannot both win: the
// second update matches zero rows and returns (nil, nil). No SELECT-then-
// UPDATE race exists.
func (d *Db) ConsumeToken(tokenType, tokenHash, userId string) (*db.OneTimeToken, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	now := db.TimeFormat(time.Now())

	var consumed *db.OneTimeToken
	err = sqlitex.Execute(conn,
		`UPDATE user_tokens SET used_at = ?
		WHERE id = (
			SELECT id FROM user_tokens
			WHERE type = ? AND token_hash = ? AND used_at = ''
				AND expires_at > ?
				AND (? = '' OR user_id = ?)
			LIMIT 1
		)
		RETURNING `+tokenColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				consumed, err = newTokenFromStmt(stmt)
				return err
			},
			Args: []interface{}{now, tokenType, tokenHash, now, userId, userId},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}
	return consumed, nil
}
