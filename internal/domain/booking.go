package domain

import "time"

type BookingType string

const (
	BookingTypeTransport  BookingType = "transport"
	BookingTypeExperience BookingType = "experience"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentMethodBalance      PaymentMethod = "balance"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// TransportDetails is the route half of the booking union. FromLocation and
// ToLocation are codes from the pricing location table.
type TransportDetails struct {
	FromLocation   string `json:"from_location"`
	ToLocation     string `json:"to_location"`
	PassengerCount int    `json:"passenger_count"`
	RoundTrip      bool   `json:"round_trip"`
	ReturnDate     string `json:"return_date,omitempty"`
	ReturnTime     string `json:"return_time,omitempty"`
}

// ExperienceDetails is the curated-flight half of the booking union.
type ExperienceDetails struct {
	ExperienceID   string `json:"experience_id"`
	PassengerCount int    `json:"passenger_count"`
}

// RevisionProposal is a full replacement of the client-editable fields,
// priced at proposal time. It is applied onto the booking only when the
// client accepts.
type RevisionProposal struct {
	Transport  *TransportDetails  `json:"transport,omitempty"`
	Experience *ExperienceDetails `json:"experience,omitempty"`
	Date       string             `json:"date,omitempty"`
	Time       string             `json:"time,omitempty"`
	TotalPrice int64              `json:"total_price"`
}

// Booking is a tagged union: exactly one of Transport or Experience is set,
// discriminated by Type. Prices are whole currency units.
type Booking struct {
	ID            string
	UserID        string
	Type          BookingType
	Transport     *TransportDetails
	Experience    *ExperienceDetails
	ScheduledDate string
	ScheduledTime string

	Status        BookingStatus
	PaymentStatus PaymentStatus
	TotalPrice    int64

	PilotID      string
	HelicopterID string

	RevisionRequested bool
	RevisionNotes     string
	Revision          *RevisionProposal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PassengerCount reads through the union arm.
func (b *Booking) PassengerCount() int {
	switch b.Type {
	case BookingTypeTransport:
		if b.Transport != nil {
			return b.Transport.PassengerCount
		}
	case BookingTypeExperience:
		if b.Experience != nil {
			return b.Experience.PassengerCount
		}
	}
	return 0
}

func (b *Booking) Assigned() bool {
	return b.PilotID != "" && b.HelicopterID != ""
}

func (b *Booking) Paid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}
