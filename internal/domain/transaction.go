package domain

import "time"

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusRejected  TransactionStatus = "rejected"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is one ledger entry. Amount is signed: deposits and refunds
// positive, payments and withdrawals negative. Only an approved deposit ever
// reaches the account balance.
type Transaction struct {
	ID            string
	UserID        string
	Type          TransactionType
	Amount        int64
	PaymentMethod PaymentMethod
	Status        TransactionStatus
	Reference     string
	AdminNotes    string
	BookingID     string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
}

// Account is a non-negative running balance. It is mutated only inside
// repository transactions, never by direct field writes in the services.
type Account struct {
	UserID    string
	Balance   int64
	UpdatedAt time.Time
}
