package zombiezen

import (
	"context"
	"fmt"

	"github.com/credenzahq/credenza/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newLinkFromStmt(stmt *sqlite.Stmt) (*db.OAuthLink, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}
	return &db.OAuthLink{
		ID:                stmt.GetInt64("id"),
		UserID:            stmt.GetText("user_id"),
		Provider:          stmt.GetText("provider"),
		ProviderAccountID: stmt.GetText("provider_account_id"),
		AccessToken:       stmt.GetText("access_token"),
		RefreshToken:      stmt.GetText("refresh_token"),
		Created:           created,
	}, nil
}

// GetOauth2Link retrieves an account link by its globally unique
// (provider, provider account id) pair. Returns (nil, nil) when absent.
func (d *Db) GetOauth2Link(provider, providerAccountID string) (*db.OAuthLink, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var link *db.OAuthLink
	err = sqlitex.Execute(conn,
		`SELECT id, user_id, provider, provider_account_id, access_token, refresh_token, created
		FROM oauth_accounts WHERE provider = ? AND provider_account_id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				link, err = newLinkFromStmt(stmt)
				return err
			},
			Args: []interface{}{provider, providerAccountID},
		})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// CreateOauth2Link inserts a link. The table's UNIQUE constraint makes this
// insert-or-fail: the loser of two racing first logins gets
// db.ErrConstraintUnique and re-reads the winner's link.
func (d *Db) CreateOauth2Link(link db.OAuthLink) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO oauth_accounts (user_id, provider, provider_account_id, access_token, refresh_token)
		VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{
				link.UserID, link.Provider, link.ProviderAccountID,
				link.AccessToken, link.RefreshToken,
			},
		})
	if err != nil {
		if isConstraintUnique(err) {
			return db.ErrConstraintUnique
		}
		return fmt.Errorf("failed to create oauth link: %w", err)
	}
	return nil
}
