package pricing

import (
	"fmt"
	"math"

	"github.com/0xgasc/flyin-sub000/internal/domain"
)

// Round-trip multipliers. These are commercial rules, not physics: the return
// leg is never derived by doubling distance, so the multiplier applies to the
// one-way figure exactly once.
const (
	sameDayReturnMultiplier = 1.8
	fullReturnMultiplier    = 2.0

	earthRadiusKm = 6371.0

	// First passenger rides on the base price; the surcharge covers the rest.
	includedPassengers = 1
)

// Rates are the fixed reference figures the engine prices against.
type Rates struct {
	HourlyRate      int64
	CruiseSpeedKmh  float64
	PerPassengerFee int64
}

// DefaultRates match the published charter tariff.
func DefaultRates() Rates {
	return Rates{HourlyRate: 600, CruiseSpeedKmh: 220, PerPassengerFee: 75}
}

// Breakdown is the derived price of a transport booking. Monetary fields are
// whole currency units.
type Breakdown struct {
	DistanceKm          float64 `json:"distance_km"`
	FlightTimeMinutes   float64 `json:"flight_time_minutes"`
	BasePrice           int64   `json:"base_price"`
	PassengerSurcharge  int64   `json:"passenger_surcharge"`
	RoundTripMultiplier float64 `json:"round_trip_multiplier"`
	TotalPrice          int64   `json:"total_price"`
}

// Engine is a pure calculator over the static location table and the
// configured rates. It holds no mutable state.
type Engine struct {
	rates Rates
}

func NewEngine(rates Rates) *Engine {
	if rates.CruiseSpeedKmh <= 0 {
		rates = DefaultRates()
	}
	return &Engine{rates: rates}
}

// TransportPrice prices a point-to-point charter. sameDayReturn only matters
// when roundTrip is set.
func (e *Engine) TransportPrice(from, to string, passengerCount int, roundTrip, sameDayReturn bool) (*Breakdown, error) {
	if passengerCount < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPassengerCount, passengerCount)
	}

	origin, err := ResolveLocation(from)
	if err != nil {
		return nil, err
	}
	dest, err := ResolveLocation(to)
	if err != nil {
		return nil, err
	}

	distance := haversineKm(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	flightMinutes := distance / e.rates.CruiseSpeedKmh * 60

	base := int64(math.Round(flightMinutes / 60 * float64(e.rates.HourlyRate)))
	surcharge := e.rates.PerPassengerFee * int64(passengerCount-includedPassengers)

	multiplier := 1.0
	if roundTrip {
		if sameDayReturn {
			multiplier = sameDayReturnMultiplier
		} else {
			multiplier = fullReturnMultiplier
		}
	}

	total := int64(math.Round(float64(base+surcharge) * multiplier))

	return &Breakdown{
		DistanceKm:          distance,
		FlightTimeMinutes:   flightMinutes,
		BasePrice:           base,
		PassengerSurcharge:  surcharge,
		RoundTripMultiplier: multiplier,
		TotalPrice:          total,
	}, nil
}

// ExperiencePrice prices a curated flight. Tiered experiences charge the
// matching tier's flat group price; untiered ones charge per seat.
func (e *Engine) ExperiencePrice(exp *domain.Experience, passengerCount int) (int64, error) {
	if passengerCount < exp.MinPassengers || passengerCount > exp.MaxPassengers {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", domain.ErrInvalidPassengerCount,
			passengerCount, exp.MinPassengers, exp.MaxPassengers)
	}

	if len(exp.Tiers) == 0 {
		return exp.BasePrice * int64(passengerCount), nil
	}
	return selectTier(exp.Tiers, passengerCount).Price, nil
}

// selectTier prefers the tier whose range contains the count, then the
// tightest tier that can still hold the group, then clamps to the highest.
func selectTier(tiers []domain.PriceTier, passengerCount int) domain.PriceTier {
	var (
		smallestFit *domain.PriceTier
		largest     *domain.PriceTier
	)
	for i := range tiers {
		t := &tiers[i]
		if passengerCount >= t.MinPassengers && passengerCount <= t.MaxPassengers {
			return *t
		}
		if t.MaxPassengers >= passengerCount && (smallestFit == nil || t.MaxPassengers < smallestFit.MaxPassengers) {
			smallestFit = t
		}
		if largest == nil || t.MaxPassengers > largest.MaxPassengers {
			largest = t
		}
	}
	if smallestFit != nil {
		return *smallestFit
	}
	return *largest
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
