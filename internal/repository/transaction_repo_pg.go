package repository

import (
	"context"
	"errors"
	"time"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	Approve(ctx context.Context, id string) (*domain.Transaction, error)
	Reject(ctx context.Context, id, notes string) (*domain.Transaction, error)
	ListPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Transaction, error)
}

type PGTransactionRepository struct {
	db DB
}

func NewTransactionRepository(db DB) TransactionRepository {
	return &PGTransactionRepository{db: db}
}

const transactionColumns = `id, user_id, type, amount, payment_method, status, reference, admin_notes, booking_id, processed_at, created_at`

func (r *PGTransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return r.db.QueryRow(ctx, `INSERT INTO transactions
		(id, user_id, type, amount, payment_method, status, reference, admin_notes, booking_id, processed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		t.ID, t.UserID, t.Type, t.Amount, t.PaymentMethod, t.Status, t.Reference, t.AdminNotes, t.BookingID, t.ProcessedAt).
		Scan(&t.CreatedAt)
}

func (r *PGTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id=$1`, id)
	return scanTransaction(row)
}

// Approve flips a pending transaction to approved and applies its balance
// effect in one transaction. The status WHERE clause is the idempotence
// guard: a transaction that already left pending yields zero rows and the
// balance is never touched a second time.
func (r *PGTransactionRepository) Approve(ctx context.Context, id string) (*domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE transactions SET status=$2, processed_at=now()
		WHERE id=$1 AND status=$3 RETURNING `+transactionColumns,
		id, domain.TransactionStatusApproved, domain.TransactionStatusPending)
	approved, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, r.classifyApprovalMiss(ctx, id)
		}
		return nil, err
	}

	switch approved.Type {
	case domain.TransactionTypeDeposit:
		if _, err := tx.Exec(ctx, `INSERT INTO accounts (user_id, balance) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET balance = accounts.balance + $2, updated_at = now()`,
			approved.UserID, approved.Amount); err != nil {
			return nil, err
		}
	case domain.TransactionTypePayment:
		// Bank-transfer payment confirmed: the linked booking becomes paid.
		// No balance movement, the money never entered the account.
		if approved.BookingID != "" {
			if _, err := tx.Exec(ctx, `UPDATE bookings SET payment_status=$2, updated_at=now() WHERE id=$1`,
				approved.BookingID, domain.PaymentStatusPaid); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return approved, nil
}

// Reject closes a pending transaction with a reason. Balance is untouched by
// design; a rejected deposit never existed as money.
func (r *PGTransactionRepository) Reject(ctx context.Context, id, notes string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `UPDATE transactions SET status=$2, admin_notes=$3, processed_at=now()
		WHERE id=$1 AND status=$4 RETURNING `+transactionColumns,
		id, domain.TransactionStatusRejected, notes, domain.TransactionStatusPending)
	rejected, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, r.classifyApprovalMiss(ctx, id)
		}
		return nil, err
	}
	return rejected, nil
}

func (r *PGTransactionRepository) ListPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE status=$1 AND created_at <= $2 ORDER BY created_at`,
		domain.TransactionStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, *t)
	}
	return pending, rows.Err()
}

// classifyApprovalMiss distinguishes "no such transaction" from "already
// processed" after a guarded UPDATE matched nothing.
func (r *PGTransactionRepository) classifyApprovalMiss(ctx context.Context, id string) error {
	var status domain.TransactionStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM transactions WHERE id=$1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return domain.ErrDuplicateApproval
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.PaymentMethod, &t.Status,
		&t.Reference, &t.AdminNotes, &t.BookingID, &t.ProcessedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	return tx.QueryRow(ctx, `INSERT INTO transactions
		(id, user_id, type, amount, payment_method, status, reference, admin_notes, booking_id, processed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		t.ID, t.UserID, t.Type, t.Amount, t.PaymentMethod, t.Status, t.Reference, t.AdminNotes, t.BookingID, t.ProcessedAt).
		Scan(&t.CreatedAt)
}

var _ TransactionRepository = (*PGTransactionRepository)(nil)
