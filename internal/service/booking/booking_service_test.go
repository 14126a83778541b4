package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/0xgasc/flyin-sub000/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) PayFromBalance(ctx context.Context, booking *domain.Booking, payment *domain.Transaction) (*domain.Booking, error) {
	args := m.Called(ctx, booking, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) RecordPendingPayment(ctx context.Context, booking *domain.Booking, payment *domain.Transaction) (*domain.Booking, error) {
	args := m.Called(ctx, booking, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockExperienceRepository struct {
	mock.Mock
}

func (m *MockExperienceRepository) List(ctx context.Context) ([]domain.Experience, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Experience), args.Error(1)
}

func (m *MockExperienceRepository) GetByID(ctx context.Context, id string) (*domain.Experience, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experience), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetQuote(ctx context.Context, key string) (*pricing.Breakdown, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Breakdown), args.Error(1)
}

func (m *MockCache) SetQuote(ctx context.Context, key string, breakdown *pricing.Breakdown) error {
	args := m.Called(ctx, key, breakdown)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type fixture struct {
	bookings    *MockBookingRepository
	experiences *MockExperienceRepository
	cache       *MockCache
	producer    *MockProducer
	service     *BookingService
}

func newFixture() *fixture {
	f := &fixture{
		bookings:    &MockBookingRepository{},
		experiences: &MockExperienceRepository{},
		cache:       &MockCache{},
		producer:    &MockProducer{},
	}
	f.service = NewBookingService(
		f.bookings, f.experiences, pricing.NewEngine(pricing.DefaultRates()),
		f.cache, f.producer, "booking-events",
	)
	return f
}

func (f *fixture) expectQuoteMiss(ctx context.Context) {
	f.cache.On("GetQuote", ctx, mock.AnythingOfType("string")).Return(nil, nil)
	f.cache.On("SetQuote", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("*pricing.Breakdown")).Return(nil)
}

func (f *fixture) expectPublish(ctx context.Context) {
	f.producer.On("Publish", ctx, "booking-events", mock.AnythingOfType("string"), mock.Anything).Return(nil)
}

func transportBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:     "bk-1",
		UserID: "user-1",
		Type:   domain.BookingTypeTransport,
		Transport: &domain.TransportDetails{
			FromLocation:   "GUA",
			ToLocation:     "ANTIGUA",
			PassengerCount: 2,
		},
		ScheduledDate: "2026-09-10",
		ScheduledTime: "08:00",
		Status:        status,
		PaymentStatus: domain.PaymentStatusUnpaid,
		TotalPrice:    135,
		CreatedAt:     time.Now(),
	}
}

func TestCreateBooking_Transport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.expectQuoteMiss(ctx)
	f.expectPublish(ctx)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

	created, err := f.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "user-1",
		Type:           domain.BookingTypeTransport,
		FromLocation:   "GUA",
		ToLocation:     "ANTIGUA",
		PassengerCount: 2,
		ScheduledDate:  "2026-09-10",
		ScheduledTime:  "08:00",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.BookingStatusPending, created.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, created.PaymentStatus)
	// GUA->ANTIGUA at the fixed tariff: 60 base + 75 surcharge for the second seat.
	assert.Equal(t, int64(135), created.TotalPrice)
	require.NotNil(t, created.Transport)
	assert.Nil(t, created.Experience)

	f.bookings.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestCreateBooking_SameDayRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.expectQuoteMiss(ctx)
	f.expectPublish(ctx)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

	created, err := f.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "user-1",
		Type:           domain.BookingTypeTransport,
		FromLocation:   "GUA",
		ToLocation:     "ANTIGUA",
		PassengerCount: 2,
		RoundTrip:      true,
		ReturnDate:     "2026-09-10",
		ScheduledDate:  "2026-09-10",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(243), created.TotalPrice) // round(135 * 1.8)
}

func TestCreateBooking_UnknownLocation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.cache.On("GetQuote", ctx, mock.AnythingOfType("string")).Return(nil, nil)

	_, err := f.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "user-1",
		Type:           domain.BookingTypeTransport,
		FromLocation:   "GUA",
		ToLocation:     "SOMEWHERE_NEW",
		PassengerCount: 1,
	})

	assert.ErrorIs(t, err, domain.ErrUnresolvableLocation)
	f.bookings.AssertNotCalled(t, "Create")
}

func TestCreateBooking_Experience(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	exp := &domain.Experience{
		ID:            "volcano-overflight",
		BasePrice:     250,
		MinPassengers: 1,
		MaxPassengers: 5,
	}
	f.experiences.On("GetByID", ctx, "volcano-overflight").Return(exp, nil)
	f.expectPublish(ctx)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

	created, err := f.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "user-1",
		Type:           domain.BookingTypeExperience,
		ExperienceID:   "volcano-overflight",
		PassengerCount: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(750), created.TotalPrice)
	require.NotNil(t, created.Experience)
	assert.Nil(t, created.Transport)
}

func TestCreateBooking_ExperienceCapacityExceeded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	exp := &domain.Experience{ID: "volcano-overflight", BasePrice: 250, MinPassengers: 1, MaxPassengers: 5}
	f.experiences.On("GetByID", ctx, "volcano-overflight").Return(exp, nil)

	_, err := f.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "user-1",
		Type:           domain.BookingTypeExperience,
		ExperienceID:   "volcano-overflight",
		PassengerCount: 6,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidPassengerCount)
	f.bookings.AssertNotCalled(t, "Create")
}

func TestApproveBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusPending)
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectPublish(ctx)

	updated, err := f.service.ApproveBooking(ctx, "bk-1")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusApproved, updated.Status)
	f.bookings.AssertExpectations(t)
}

func TestApproveBooking_FromCompleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "bk-1").Return(transportBooking(domain.BookingStatusCompleted), nil)

	_, err := f.service.ApproveBooking(ctx, "bk-1")

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	f.bookings.AssertNotCalled(t, "Update")
}

func TestRequestRevision_RepricesChangedRoute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusPending)
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectQuoteMiss(ctx)
	f.expectPublish(ctx)

	updated, err := f.service.RequestRevision(ctx, "bk-1", RevisionInput{
		ToLocation: "ATITLAN",
		Notes:      "Antigua helipad closed that morning, rerouting to the lake",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusNeedsRevision, updated.Status)
	assert.True(t, updated.RevisionRequested)
	require.NotNil(t, updated.Revision)
	assert.Equal(t, "ATITLAN", updated.Revision.Transport.ToLocation)
	// GUA->ATITLAN, 2 pax: 191 base + 75 surcharge.
	assert.Equal(t, int64(266), updated.Revision.TotalPrice)
	// The live booking price is untouched until the client accepts.
	assert.Equal(t, int64(135), updated.TotalPrice)
}

func TestRequestRevision_KeepsPriceWhenRouteUnchanged(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusPending)
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectPublish(ctx)

	updated, err := f.service.RequestRevision(ctx, "bk-1", RevisionInput{
		ScheduledTime: "14:00",
		Notes:         "morning slot unavailable",
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Revision)
	assert.Equal(t, int64(135), updated.Revision.TotalPrice)
	f.cache.AssertNotCalled(t, "GetQuote")
}

func TestRequestRevision_TimeOnlyKeepsRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusPending)
	current.Transport.RoundTrip = true
	current.Transport.ReturnDate = "2026-09-14"
	current.TotalPrice = 270 // 135 * 2.0 full-return multiplier
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectPublish(ctx)

	updated, err := f.service.RequestRevision(ctx, "bk-1", RevisionInput{
		ScheduledTime: "14:00",
		Notes:         "morning slot unavailable",
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Revision)
	assert.True(t, updated.Revision.Transport.RoundTrip)
	assert.Equal(t, "2026-09-14", updated.Revision.Transport.ReturnDate)
	assert.Equal(t, int64(270), updated.Revision.TotalPrice)
	f.cache.AssertNotCalled(t, "GetQuote")
}

func TestRequestRevision_ExplicitOneWayReprices(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusPending)
	current.Transport.RoundTrip = true
	current.Transport.ReturnDate = "2026-09-14"
	current.TotalPrice = 270
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectQuoteMiss(ctx)
	f.expectPublish(ctx)

	oneWay := false
	updated, err := f.service.RequestRevision(ctx, "bk-1", RevisionInput{
		RoundTrip: &oneWay,
		Notes:     "client no longer needs the return leg",
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Revision)
	assert.False(t, updated.Revision.Transport.RoundTrip)
	assert.Empty(t, updated.Revision.Transport.ReturnDate)
	assert.Equal(t, int64(135), updated.Revision.TotalPrice)
}

func TestRequestRevision_PaidBookingRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusPending)
	current.PaymentStatus = domain.PaymentStatusPaid
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)

	_, err := f.service.RequestRevision(ctx, "bk-1", RevisionInput{Notes: "change route"})

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	f.bookings.AssertNotCalled(t, "Update")
}

func TestAcceptRevision_MergesProposal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusNeedsRevision)
	current.RevisionRequested = true
	current.RevisionNotes = "rerouted"
	current.Revision = &domain.RevisionProposal{
		Transport: &domain.TransportDetails{
			FromLocation:   "GUA",
			ToLocation:     "ATITLAN",
			PassengerCount: 3,
		},
		Date:       "2026-09-12",
		TotalPrice: 341,
	}
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectPublish(ctx)

	updated, err := f.service.AcceptRevision(ctx, "bk-1")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusApproved, updated.Status)
	assert.Equal(t, "ATITLAN", updated.Transport.ToLocation)
	assert.Equal(t, 3, updated.Transport.PassengerCount)
	assert.Equal(t, "2026-09-12", updated.ScheduledDate)
	assert.Equal(t, int64(341), updated.TotalPrice)
	assert.False(t, updated.RevisionRequested)
	assert.Empty(t, updated.RevisionNotes)
	assert.Nil(t, updated.Revision)
}

func TestAcceptRevision_WithoutProposal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "bk-1").Return(transportBooking(domain.BookingStatusPending), nil)

	_, err := f.service.AcceptRevision(ctx, "bk-1")

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	f.bookings.AssertNotCalled(t, "Update")
}

func TestAssignCrew(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusApproved)
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectPublish(ctx)

	updated, err := f.service.AssignCrew(ctx, "bk-1", "pilot-7", "heli-2")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusAssigned, updated.Status)
	assert.Equal(t, "pilot-7", updated.PilotID)
	assert.Equal(t, "heli-2", updated.HelicopterID)
	assert.True(t, updated.Assigned())
}

func TestAssignCrew_MissingHelicopter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.AssignCrew(ctx, "bk-1", "pilot-7", "")

	assert.ErrorIs(t, err, domain.ErrMissingAssignment)
	f.bookings.AssertNotCalled(t, "GetByID")
	f.bookings.AssertNotCalled(t, "Update")
}

func TestAssignCrew_FromPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "bk-1").Return(transportBooking(domain.BookingStatusPending), nil)

	_, err := f.service.AssignCrew(ctx, "bk-1", "pilot-7", "heli-2")

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	f.bookings.AssertNotCalled(t, "Update")
}

func TestPayBooking_Balance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusApproved)
	paid := transportBooking(domain.BookingStatusApproved)
	paid.PaymentStatus = domain.PaymentStatusPaid

	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("PayFromBalance", ctx, current, mock.MatchedBy(func(tx *domain.Transaction) bool {
		return tx.Type == domain.TransactionTypePayment &&
			tx.Amount == -135 &&
			tx.BookingID == "bk-1" &&
			tx.PaymentMethod == domain.PaymentMethodBalance
	})).Return(paid, nil)
	f.expectPublish(ctx)

	updated, err := f.service.PayBooking(ctx, "bk-1", domain.PaymentMethodBalance, "")

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, updated.PaymentStatus)
	f.bookings.AssertExpectations(t)
}

func TestPayBooking_InsufficientFunds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusApproved)
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("PayFromBalance", ctx, current, mock.Anything).Return(nil, domain.ErrInsufficientFunds)

	_, err := f.service.PayBooking(ctx, "bk-1", domain.PaymentMethodBalance, "")

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, domain.PaymentStatusUnpaid, current.PaymentStatus)
	f.producer.AssertNotCalled(t, "Publish")
}

func TestPayBooking_BankTransferGoesPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusAssigned)
	pendingPay := transportBooking(domain.BookingStatusAssigned)
	pendingPay.PaymentStatus = domain.PaymentStatusPending

	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("RecordPendingPayment", ctx, current, mock.MatchedBy(func(tx *domain.Transaction) bool {
		return tx.PaymentMethod == domain.PaymentMethodBankTransfer && tx.Reference == "TRF-991"
	})).Return(pendingPay, nil)
	f.expectPublish(ctx)

	updated, err := f.service.PayBooking(ctx, "bk-1", domain.PaymentMethodBankTransfer, "TRF-991")

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, updated.PaymentStatus)
	f.bookings.AssertNotCalled(t, "PayFromBalance")
}

func TestPayBooking_FromPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "bk-1").Return(transportBooking(domain.BookingStatusPending), nil)

	_, err := f.service.PayBooking(ctx, "bk-1", domain.PaymentMethodBalance, "")

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	f.bookings.AssertNotCalled(t, "PayFromBalance")
}

func TestPayBooking_AlreadyPaid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusApproved)
	current.PaymentStatus = domain.PaymentStatusPaid
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)

	_, err := f.service.PayBooking(ctx, "bk-1", domain.PaymentMethodBalance, "")

	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	f.bookings.AssertNotCalled(t, "PayFromBalance")
}

func TestMarkCompleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusAssigned)
	current.PilotID = "pilot-7"
	current.HelicopterID = "heli-2"
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectPublish(ctx)

	updated, err := f.service.MarkCompleted(ctx, "bk-1")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, updated.Status)
}

func TestMarkCompleted_FromPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "bk-1").Return(transportBooking(domain.BookingStatusPending), nil)

	_, err := f.service.MarkCompleted(ctx, "bk-1")

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	f.bookings.AssertNotCalled(t, "Update")
}

func TestCancelBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	current := transportBooking(domain.BookingStatusPending)
	f.bookings.On("GetByID", ctx, "bk-1").Return(current, nil)
	f.bookings.On("Update", ctx, current).Return(current, nil)
	f.expectPublish(ctx)

	updated, err := f.service.CancelBooking(ctx, "bk-1")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, updated.Status)
}

func TestCancelBooking_Completed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "bk-1").Return(transportBooking(domain.BookingStatusCompleted), nil)

	_, err := f.service.CancelBooking(ctx, "bk-1")

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestQuote_CacheHit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cached := &pricing.Breakdown{TotalPrice: 135, RoundTripMultiplier: 1.0}
	f.cache.On("GetQuote", ctx, "GUA:ANTIGUA:2:false:false").Return(cached, nil)

	breakdown, err := f.service.Quote(ctx, QuoteInput{
		FromLocation: "GUA", ToLocation: "ANTIGUA", PassengerCount: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, cached, breakdown)
	f.cache.AssertNotCalled(t, "SetQuote")
}

func TestQuote_CacheErrorFallsThrough(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.cache.On("GetQuote", ctx, mock.AnythingOfType("string")).Return(nil, errors.New("redis down"))
	f.cache.On("SetQuote", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	breakdown, err := f.service.Quote(ctx, QuoteInput{
		FromLocation: "GUA", ToLocation: "ANTIGUA", PassengerCount: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(135), breakdown.TotalPrice)
}

func TestCreateBooking_PublishFailureTolerated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.expectQuoteMiss(ctx)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	f.producer.On("Publish", ctx, "booking-events", mock.AnythingOfType("string"), mock.Anything).
		Return(errors.New("broker unavailable"))

	created, err := f.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "user-1",
		Type:           domain.BookingTypeTransport,
		FromLocation:   "GUA",
		ToLocation:     "ANTIGUA",
		PassengerCount: 2,
	})

	require.NoError(t, err)
	assert.NotNil(t, created)
}
