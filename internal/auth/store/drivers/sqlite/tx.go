package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/careerhive/careerhive/internal/auth/store"
)

// txStore scopes the repos to a live transaction.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Users() store.Users                       { return &usersRepo{db: t.tx} }
func (t *txStore) ExternalAccounts() store.ExternalAccounts { return &externalAccountsRepo{db: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Nested transactions are not a thing in sqlite; fail loudly instead of
// silently handing back the same transaction.
func (t *txStore) Tx(context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error {
	return errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: migrations cannot run inside a transaction")
}

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(context.Context) error { return nil }
