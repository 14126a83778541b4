package repository

import "context"

type AccountRepository interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
}

type PGAccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) AccountRepository {
	return &PGAccountRepository{db: db}
}

// GetBalance treats a missing account row as a zero balance; accounts are
// created lazily by the first approved deposit.
func (r *PGAccountRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(
		(SELECT balance FROM accounts WHERE user_id=$1), 0)`, userID).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

var _ AccountRepository = (*PGAccountRepository)(nil)
