package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	PayFromBalance(ctx context.Context, booking *domain.Booking, payment *domain.Transaction) (*domain.Booking, error)
	RecordPendingPayment(ctx context.Context, booking *domain.Booking, payment *domain.Transaction) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, type, from_location, to_location, passenger_count, round_trip,
	return_date, return_time, experience_id, scheduled_date, scheduled_time, status, payment_status,
	total_price, pilot_id, helicopter_id, revision_requested, revision_notes, revision, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	flat := flattenBooking(b)
	revision, err := marshalRevision(b.Revision)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `INSERT INTO bookings
		(id, user_id, type, from_location, to_location, passenger_count, round_trip,
		 return_date, return_time, experience_id, scheduled_date, scheduled_time, status, payment_status,
		 total_price, pilot_id, helicopter_id, revision_requested, revision_notes, revision)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING created_at, updated_at`,
		b.ID, b.UserID, b.Type, flat.fromLocation, flat.toLocation, flat.passengerCount, flat.roundTrip,
		flat.returnDate, flat.returnTime, flat.experienceID, b.ScheduledDate, b.ScheduledTime, b.Status, b.PaymentStatus,
		b.TotalPrice, b.PilotID, b.HelicopterID, b.RevisionRequested, b.RevisionNotes, revision).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	flat := flattenBooking(b)
	revision, err := marshalRevision(b.Revision)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings SET
		from_location=$2, to_location=$3, passenger_count=$4, round_trip=$5, return_date=$6, return_time=$7,
		experience_id=$8, scheduled_date=$9, scheduled_time=$10, status=$11, payment_status=$12, total_price=$13,
		pilot_id=$14, helicopter_id=$15, revision_requested=$16, revision_notes=$17, revision=$18, updated_at=now()
		WHERE id=$1 RETURNING `+bookingColumns,
		b.ID, flat.fromLocation, flat.toLocation, flat.passengerCount, flat.roundTrip, flat.returnDate, flat.returnTime,
		flat.experienceID, b.ScheduledDate, b.ScheduledTime, b.Status, b.PaymentStatus, b.TotalPrice,
		b.PilotID, b.HelicopterID, b.RevisionRequested, b.RevisionNotes, revision)
	return scanBooking(row)
}

// Delete is the admin escape hatch, not a lifecycle transition.
func (r *PGBookingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PayFromBalance settles a booking against the account in one transaction:
// the balance decrement is guarded by balance >= price, the payment ledger
// entry is inserted, and the booking flips to paid. Nothing is written when
// the guard fails.
func (r *PGBookingRepository) PayFromBalance(ctx context.Context, b *domain.Booking, payment *domain.Transaction) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance - $1, updated_at = now()
		WHERE user_id = $2 AND balance >= $1`, b.TotalPrice, b.UserID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now()
	payment.Status = domain.TransactionStatusCompleted
	payment.ProcessedAt = &now
	if err := insertTransaction(ctx, tx, payment); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `UPDATE bookings SET payment_status=$2, updated_at=now()
		WHERE id=$1 RETURNING `+bookingColumns, b.ID, domain.PaymentStatusPaid)
	updated, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordPendingPayment files a bank-transfer payment as pending; the booking
// stays unpaid until an admin approves the transaction.
func (r *PGBookingRepository) RecordPendingPayment(ctx context.Context, b *domain.Booking, payment *domain.Transaction) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	payment.Status = domain.TransactionStatusPending
	if err := insertTransaction(ctx, tx, payment); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `UPDATE bookings SET payment_status=$2, updated_at=now()
		WHERE id=$1 RETURNING `+bookingColumns, b.ID, domain.PaymentStatusPending)
	updated, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)

type flatBooking struct {
	fromLocation   string
	toLocation     string
	passengerCount int
	roundTrip      bool
	returnDate     string
	returnTime     string
	experienceID   string
}

func flattenBooking(b *domain.Booking) flatBooking {
	var flat flatBooking
	switch b.Type {
	case domain.BookingTypeTransport:
		if b.Transport != nil {
			flat.fromLocation = b.Transport.FromLocation
			flat.toLocation = b.Transport.ToLocation
			flat.passengerCount = b.Transport.PassengerCount
			flat.roundTrip = b.Transport.RoundTrip
			flat.returnDate = b.Transport.ReturnDate
			flat.returnTime = b.Transport.ReturnTime
		}
	case domain.BookingTypeExperience:
		if b.Experience != nil {
			flat.experienceID = b.Experience.ExperienceID
			flat.passengerCount = b.Experience.PassengerCount
		}
	}
	return flat
}

func marshalRevision(rev *domain.RevisionProposal) ([]byte, error) {
	if rev == nil {
		return nil, nil
	}
	return json.Marshal(rev)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b        domain.Booking
		flat     flatBooking
		revision []byte
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Type, &flat.fromLocation, &flat.toLocation, &flat.passengerCount,
		&flat.roundTrip, &flat.returnDate, &flat.returnTime, &flat.experienceID, &b.ScheduledDate,
		&b.ScheduledTime, &b.Status, &b.PaymentStatus, &b.TotalPrice, &b.PilotID, &b.HelicopterID,
		&b.RevisionRequested, &b.RevisionNotes, &revision, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	switch b.Type {
	case domain.BookingTypeTransport:
		b.Transport = &domain.TransportDetails{
			FromLocation:   flat.fromLocation,
			ToLocation:     flat.toLocation,
			PassengerCount: flat.passengerCount,
			RoundTrip:      flat.roundTrip,
			ReturnDate:     flat.returnDate,
			ReturnTime:     flat.returnTime,
		}
	case domain.BookingTypeExperience:
		b.Experience = &domain.ExperienceDetails{
			ExperienceID:   flat.experienceID,
			PassengerCount: flat.passengerCount,
		}
	}

	if len(revision) > 0 {
		var rev domain.RevisionProposal
		if err := json.Unmarshal(revision, &rev); err != nil {
			return nil, err
		}
		b.Revision = &rev
	}
	return &b, nil
}
