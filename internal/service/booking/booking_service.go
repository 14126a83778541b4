package booking

import (
	"context"
	"fmt"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/0xgasc/flyin-sub000/internal/kafka"
	"github.com/0xgasc/flyin-sub000/internal/metrics"
	"github.com/0xgasc/flyin-sub000/internal/pricing"
	"github.com/0xgasc/flyin-sub000/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Quote(ctx context.Context, input QuoteInput) (*pricing.Breakdown, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, id string) (*domain.Booking, error)
	RequestRevision(ctx context.Context, id string, input RevisionInput) (*domain.Booking, error)
	AcceptRevision(ctx context.Context, id string) (*domain.Booking, error)
	AssignCrew(ctx context.Context, id, pilotID, helicopterID string) (*domain.Booking, error)
	PayBooking(ctx context.Context, id string, method domain.PaymentMethod, reference string) (*domain.Booking, error)
	MarkCompleted(ctx context.Context, id string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

type Cache interface {
	GetQuote(ctx context.Context, key string) (*pricing.Breakdown, error)
	SetQuote(ctx context.Context, key string, breakdown *pricing.Breakdown) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	experiences        repository.ExperienceRepository
	engine             *pricing.Engine
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                *logrus.Entry
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	experiences repository.ExperienceRepository,
	engine *pricing.Engine,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		experiences:  experiences,
		engine:       engine,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		log:          logrus.WithField("component", "booking_service"),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type CreateBookingInput struct {
	UserID         string             `json:"user_id"`
	Type           domain.BookingType `json:"type"`
	FromLocation   string             `json:"from_location"`
	ToLocation     string             `json:"to_location"`
	PassengerCount int                `json:"passenger_count"`
	RoundTrip      bool               `json:"round_trip"`
	ReturnDate     string             `json:"return_date"`
	ReturnTime     string             `json:"return_time"`
	ExperienceID   string             `json:"experience_id"`
	ScheduledDate  string             `json:"scheduled_date"`
	ScheduledTime  string             `json:"scheduled_time"`
}

type QuoteInput struct {
	FromLocation   string `json:"from_location" form:"from"`
	ToLocation     string `json:"to_location" form:"to"`
	PassengerCount int    `json:"passenger_count" form:"passengers"`
	RoundTrip      bool   `json:"round_trip" form:"round_trip"`
	SameDayReturn  bool   `json:"same_day_return" form:"same_day_return"`
}

// RevisionInput is an admin's proposed replacement of the client-editable
// fields. Zero-valued fields inherit the current booking values; RoundTrip is
// a pointer so an explicit false can drop the return leg.
type RevisionInput struct {
	FromLocation   string `json:"from_location"`
	ToLocation     string `json:"to_location"`
	PassengerCount int    `json:"passenger_count"`
	RoundTrip      *bool  `json:"round_trip"`
	ReturnDate     string `json:"return_date"`
	ReturnTime     string `json:"return_time"`
	ScheduledDate  string `json:"scheduled_date"`
	ScheduledTime  string `json:"scheduled_time"`
	Notes          string `json:"notes"`
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if input.PassengerCount < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPassengerCount, input.PassengerCount)
	}

	booking := &domain.Booking{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		Type:          input.Type,
		ScheduledDate: input.ScheduledDate,
		ScheduledTime: input.ScheduledTime,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}

	switch input.Type {
	case domain.BookingTypeTransport:
		booking.Transport = &domain.TransportDetails{
			FromLocation:   input.FromLocation,
			ToLocation:     input.ToLocation,
			PassengerCount: input.PassengerCount,
			RoundTrip:      input.RoundTrip,
			ReturnDate:     input.ReturnDate,
			ReturnTime:     input.ReturnTime,
		}
		breakdown, err := s.priceTransport(ctx, booking.Transport, booking.ScheduledDate)
		if err != nil {
			return nil, err
		}
		booking.TotalPrice = breakdown.TotalPrice
	case domain.BookingTypeExperience:
		booking.Experience = &domain.ExperienceDetails{
			ExperienceID:   input.ExperienceID,
			PassengerCount: input.PassengerCount,
		}
		total, err := s.priceExperience(ctx, input.ExperienceID, input.PassengerCount)
		if err != nil {
			return nil, err
		}
		booking.TotalPrice = total
	default:
		return nil, fmt.Errorf("unknown booking type: %s", input.Type)
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) Quote(ctx context.Context, input QuoteInput) (*pricing.Breakdown, error) {
	key := fmt.Sprintf("%s:%s:%d:%t:%t", input.FromLocation, input.ToLocation,
		input.PassengerCount, input.RoundTrip, input.SameDayReturn)
	if s.cache != nil {
		if cached, err := s.cache.GetQuote(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	breakdown, err := s.engine.TransportPrice(input.FromLocation, input.ToLocation,
		input.PassengerCount, input.RoundTrip, input.SameDayReturn)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetQuote(ctx, key, breakdown)
	}
	return breakdown, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// ApproveBooking is the admin accepting the request as submitted.
func (s *BookingService) ApproveBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusApproved, "booking_approved", nil)
}

// RequestRevision stores an admin's proposed changes without touching the
// live booking fields. The price is recomputed now, against the proposed
// route and passenger count, and travels with the proposal.
func (s *BookingService) RequestRevision(ctx context.Context, id string, input RevisionInput) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Paid() {
		metrics.TransitionRejections.Inc()
		return nil, fmt.Errorf("%w: paid booking cannot be revised", domain.ErrIllegalTransition)
	}

	proposal, err := s.buildProposal(ctx, booking, input)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if err := booking.Transition(domain.BookingStatusNeedsRevision); err != nil {
		metrics.TransitionRejections.Inc()
		return nil, err
	}
	booking.Revision = proposal
	booking.RevisionNotes = input.Notes
	booking.RevisionRequested = true

	updated, err := s.bookings.Update(ctx, booking)
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitions.WithLabelValues(string(from), string(updated.Status)).Inc()
	s.publish(ctx, "booking_revision_requested", updated)
	return updated, nil
}

// AcceptRevision is the client taking the admin's proposal: the stored
// replacement fields and price are merged onto the booking, the revision
// flags are cleared, and the booking moves to approved.
func (s *BookingService) AcceptRevision(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Revision == nil {
		metrics.TransitionRejections.Inc()
		return nil, fmt.Errorf("%w: no pending revision on %s booking", domain.ErrIllegalTransition, booking.Status)
	}

	from := booking.Status
	if err := booking.Transition(domain.BookingStatusApproved); err != nil {
		metrics.TransitionRejections.Inc()
		return nil, err
	}

	rev := booking.Revision
	if rev.Transport != nil {
		booking.Transport = rev.Transport
	}
	if rev.Experience != nil {
		booking.Experience = rev.Experience
	}
	if rev.Date != "" {
		booking.ScheduledDate = rev.Date
	}
	if rev.Time != "" {
		booking.ScheduledTime = rev.Time
	}
	booking.TotalPrice = rev.TotalPrice
	booking.Revision = nil
	booking.RevisionNotes = ""
	booking.RevisionRequested = false

	updated, err := s.bookings.Update(ctx, booking)
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitions.WithLabelValues(string(from), string(updated.Status)).Inc()
	s.publish(ctx, "booking_revision_accepted", updated)
	return updated, nil
}

func (s *BookingService) AssignCrew(ctx context.Context, id, pilotID, helicopterID string) (*domain.Booking, error) {
	if pilotID == "" || helicopterID == "" {
		return nil, domain.ErrMissingAssignment
	}
	return s.transition(ctx, id, domain.BookingStatusAssigned, "booking_assigned", func(b *domain.Booking) error {
		b.PilotID = pilotID
		b.HelicopterID = helicopterID
		return nil
	})
}

// PayBooking settles the booking price. Balance payments are atomic against
// the account; bank transfers park the booking at payment pending until the
// transaction is approved. Payment is not a status transition: the booking
// keeps its approved/assigned status either way.
func (s *BookingService) PayBooking(ctx context.Context, id string, method domain.PaymentMethod, reference string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusApproved && booking.Status != domain.BookingStatusAssigned {
		metrics.TransitionRejections.Inc()
		return nil, fmt.Errorf("%w: cannot pay a %s booking", domain.ErrIllegalTransition, booking.Status)
	}
	if booking.Paid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyPaid, booking.ID)
	}
	if booking.TotalPrice <= 0 {
		return nil, fmt.Errorf("booking has no computed price")
	}

	payment := &domain.Transaction{
		ID:            uuid.NewString(),
		UserID:        booking.UserID,
		Type:          domain.TransactionTypePayment,
		Amount:        -booking.TotalPrice,
		PaymentMethod: method,
		Reference:     reference,
		BookingID:     booking.ID,
	}

	var updated *domain.Booking
	switch method {
	case domain.PaymentMethodBalance:
		updated, err = s.bookings.PayFromBalance(ctx, booking, payment)
	case domain.PaymentMethodBankTransfer, domain.PaymentMethodCash:
		updated, err = s.bookings.RecordPendingPayment(ctx, booking, payment)
	default:
		return nil, fmt.Errorf("unknown payment method: %s", method)
	}
	if err != nil {
		return nil, err
	}

	metrics.Payments.WithLabelValues(string(method)).Inc()
	s.publish(ctx, "booking_payment_recorded", updated)
	return updated, nil
}

func (s *BookingService) MarkCompleted(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusCompleted, "booking_completed", nil)
}

func (s *BookingService) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusCancelled, "booking_cancelled", nil)
}

// DeleteBooking is the destructive admin escape hatch, deliberately outside
// the transition table.
func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	return s.bookings.Delete(ctx, id)
}

// transition loads, validates against the lifecycle table, applies the
// mutation, and persists. The stored record is untouched when any step fails.
func (s *BookingService) transition(ctx context.Context, id string, to domain.BookingStatus, event string, mutate func(*domain.Booking) error) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if err := booking.Transition(to); err != nil {
		metrics.TransitionRejections.Inc()
		return nil, err
	}
	if mutate != nil {
		if err := mutate(booking); err != nil {
			return nil, err
		}
	}

	updated, err := s.bookings.Update(ctx, booking)
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitions.WithLabelValues(string(from), string(to)).Inc()
	s.publish(ctx, event, updated)
	return updated, nil
}

func (s *BookingService) buildProposal(ctx context.Context, booking *domain.Booking, input RevisionInput) (*domain.RevisionProposal, error) {
	proposal := &domain.RevisionProposal{
		Date:       input.ScheduledDate,
		Time:       input.ScheduledTime,
		TotalPrice: booking.TotalPrice,
	}

	switch booking.Type {
	case domain.BookingTypeTransport:
		current := booking.Transport
		roundTrip := current.RoundTrip
		if input.RoundTrip != nil {
			roundTrip = *input.RoundTrip
		}
		next := &domain.TransportDetails{
			FromLocation:   orDefault(input.FromLocation, current.FromLocation),
			ToLocation:     orDefault(input.ToLocation, current.ToLocation),
			PassengerCount: current.PassengerCount,
			RoundTrip:      roundTrip,
			ReturnDate:     orDefault(input.ReturnDate, current.ReturnDate),
			ReturnTime:     orDefault(input.ReturnTime, current.ReturnTime),
		}
		if !roundTrip {
			next.ReturnDate = ""
			next.ReturnTime = ""
		}
		if input.PassengerCount > 0 {
			next.PassengerCount = input.PassengerCount
		}
		proposal.Transport = next

		date := orDefault(input.ScheduledDate, booking.ScheduledDate)
		if routeChanged(current, next) {
			breakdown, err := s.priceTransport(ctx, next, date)
			if err != nil {
				return nil, err
			}
			proposal.TotalPrice = breakdown.TotalPrice
		}
	case domain.BookingTypeExperience:
		current := booking.Experience
		next := &domain.ExperienceDetails{
			ExperienceID:   current.ExperienceID,
			PassengerCount: current.PassengerCount,
		}
		if input.PassengerCount > 0 {
			next.PassengerCount = input.PassengerCount
		}
		proposal.Experience = next

		if next.PassengerCount != current.PassengerCount {
			total, err := s.priceExperience(ctx, next.ExperienceID, next.PassengerCount)
			if err != nil {
				return nil, err
			}
			proposal.TotalPrice = total
		}
	}
	return proposal, nil
}

func (s *BookingService) priceTransport(ctx context.Context, t *domain.TransportDetails, scheduledDate string) (*pricing.Breakdown, error) {
	sameDay := t.RoundTrip && t.ReturnDate != "" && t.ReturnDate == scheduledDate
	return s.Quote(ctx, QuoteInput{
		FromLocation:   t.FromLocation,
		ToLocation:     t.ToLocation,
		PassengerCount: t.PassengerCount,
		RoundTrip:      t.RoundTrip,
		SameDayReturn:  sameDay,
	})
}

func (s *BookingService) priceExperience(ctx context.Context, experienceID string, passengerCount int) (int64, error) {
	exp, err := s.experiences.GetByID(ctx, experienceID)
	if err != nil {
		return 0, err
	}
	return s.engine.ExperiencePrice(exp, passengerCount)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		BookingType:   string(booking.Type),
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		TotalPrice:    booking.TotalPrice,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.log.WithError(err).WithField("booking_id", booking.ID).Warnf("publish %s failed", eventType)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.log.WithError(err).WithField("booking_id", booking.ID).Warn("publish notification failed")
		}
	}
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func routeChanged(current, next *domain.TransportDetails) bool {
	return current.FromLocation != next.FromLocation ||
		current.ToLocation != next.ToLocation ||
		current.PassengerCount != next.PassengerCount ||
		current.RoundTrip != next.RoundTrip ||
		current.ReturnDate != next.ReturnDate
}

var _ BookingUseCase = (*BookingService)(nil)
