package ledger

import (
	"context"
	"fmt"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/0xgasc/flyin-sub000/internal/kafka"
	"github.com/0xgasc/flyin-sub000/internal/metrics"
	"github.com/0xgasc/flyin-sub000/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type LedgerUseCase interface {
	SubmitTopUp(ctx context.Context, input TopUpInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ApproveTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, id, notes string) (*domain.Transaction, error)
	Balance(ctx context.Context, userID string) (int64, error)
}

// Locker serializes admins racing to process the same transaction. The DB
// status guard is the real idempotence barrier; the lock just keeps the
// losing admin from hitting it.
type Locker interface {
	AcquireApprovalLock(ctx context.Context, txID string) (bool, error)
	ReleaseApprovalLock(ctx context.Context, txID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type LedgerService struct {
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	locker       Locker
	producer     Producer
	ledgerTopic  string
	log          *logrus.Entry
}

func NewLedgerService(
	transactions repository.TransactionRepository,
	accounts repository.AccountRepository,
	locker Locker,
	producer Producer,
	ledgerTopic string,
) *LedgerService {
	return &LedgerService{
		transactions: transactions,
		accounts:     accounts,
		locker:       locker,
		producer:     producer,
		ledgerTopic:  ledgerTopic,
		log:          logrus.WithField("component", "ledger_service"),
	}
}

type TopUpInput struct {
	UserID        string               `json:"user_id"`
	Amount        int64                `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Reference     string               `json:"reference"`
}

// SubmitTopUp files a deposit for admin review. The balance is untouched
// until approval.
func (s *LedgerService) SubmitTopUp(ctx context.Context, input TopUpInput) (*domain.Transaction, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("top-up amount must be positive, got %d", input.Amount)
	}

	tx := &domain.Transaction{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		Type:          domain.TransactionTypeDeposit,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Status:        domain.TransactionStatusPending,
		Reference:     input.Reference,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, "deposit_submitted", tx)
	return tx, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

// ApproveTransaction credits a deposit (or completes a transfer payment)
// exactly once. A second approval, concurrent or later, fails with
// ErrDuplicateApproval and leaves the balance as it was.
func (s *LedgerService) ApproveTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	if s.locker != nil {
		ok, err := s.locker.AcquireApprovalLock(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: approval in progress", domain.ErrDuplicateApproval)
		}
		defer func() {
			_ = s.locker.ReleaseApprovalLock(ctx, id)
		}()
	}

	approved, err := s.transactions.Approve(ctx, id)
	if err != nil {
		return nil, err
	}

	if approved.Type == domain.TransactionTypeDeposit {
		metrics.DepositsApproved.Inc()
	}
	s.publish(ctx, "transaction_approved", approved)
	return approved, nil
}

// RejectTransaction closes a pending item with a mandatory reason. Rejected
// deposits never touch the balance.
func (s *LedgerService) RejectTransaction(ctx context.Context, id, notes string) (*domain.Transaction, error) {
	if notes == "" {
		return nil, fmt.Errorf("rejection requires admin notes")
	}

	rejected, err := s.transactions.Reject(ctx, id, notes)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "transaction_rejected", rejected)
	return rejected, nil
}

func (s *LedgerService) Balance(ctx context.Context, userID string) (int64, error) {
	return s.accounts.GetBalance(ctx, userID)
}

func (s *LedgerService) publish(ctx context.Context, eventType string, tx *domain.Transaction) {
	if s.producer == nil || s.ledgerTopic == "" {
		return
	}
	event := kafka.LedgerEvent{
		Type:          eventType,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		TxType:        string(tx.Type),
		Amount:        tx.Amount,
		Status:        string(tx.Status),
		Reference:     tx.Reference,
	}
	if err := s.producer.Publish(ctx, s.ledgerTopic, tx.ID, event); err != nil {
		s.log.WithError(err).WithField("transaction_id", tx.ID).Warnf("publish %s failed", eventType)
	}
}

var _ LedgerUseCase = (*LedgerService)(nil)
