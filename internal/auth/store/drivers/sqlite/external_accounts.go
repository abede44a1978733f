package sqlite

import (
	"context"
	"time"

	"github.com/careerhive/careerhive/internal/auth/domain"
)

type externalAccountsRepo struct {
	db dbtx
}

func (r *externalAccountsRepo) GetByProviderID(ctx context.Context, provider domain.Provider, externalID string) (domain.ExternalAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, external_id, created_at
		 FROM external_accounts WHERE provider = ? AND external_id = ?`,
		provider, externalID,
	)

	var ea domain.ExternalAccount
	err := row.Scan(&ea.ID, &ea.UserID, &ea.Provider, &ea.ExternalID, &ea.CreatedAt)
	if err != nil {
		return domain.ExternalAccount{}, mapNotFound(err)
	}
	return ea, nil
}

func (r *externalAccountsRepo) Create(ctx context.Context, ea domain.ExternalAccount) error {
	if ea.CreatedAt.IsZero() {
		ea.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO external_accounts (id, user_id, provider, external_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ea.ID, ea.UserID, ea.Provider, ea.ExternalID, ea.CreatedAt,
	)
	return mapConstraint(err)
}
