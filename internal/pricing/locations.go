package pricing

import (
	"fmt"
	"sort"

	"github.com/0xgasc/flyin-sub000/internal/domain"
)

// Location is one entry of the static route table: airports, airstrips and
// named landing points served by the charter fleet.
type Location struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

var locations = map[string]Location{
	"GUA":             {Code: "GUA", Name: "La Aurora International, Guatemala City", Lat: 14.5833, Lng: -90.5275},
	"ANTIGUA":         {Code: "ANTIGUA", Name: "Antigua Guatemala Helipad", Lat: 14.5586, Lng: -90.7295},
	"ATITLAN":         {Code: "ATITLAN", Name: "Lake Atitlan, Panajachel", Lat: 14.7407, Lng: -91.1580},
	"TIKAL":           {Code: "TIKAL", Name: "Tikal National Park", Lat: 17.2220, Lng: -89.6237},
	"FLORES":          {Code: "FLORES", Name: "Mundo Maya International, Flores", Lat: 16.9138, Lng: -89.8664},
	"MONTERRICO":      {Code: "MONTERRICO", Name: "Monterrico Beach", Lat: 13.8930, Lng: -90.4829},
	"SEMUC":           {Code: "SEMUC", Name: "Semuc Champey", Lat: 15.5333, Lng: -89.9500},
	"COBAN":           {Code: "COBAN", Name: "Coban Airstrip", Lat: 15.4689, Lng: -90.4067},
	"RIO_DULCE":       {Code: "RIO_DULCE", Name: "Rio Dulce, Izabal", Lat: 15.6603, Lng: -88.9969},
	"PUERTO_SAN_JOSE": {Code: "PUERTO_SAN_JOSE", Name: "Puerto San Jose", Lat: 13.9275, Lng: -90.8208},
	"XELA":            {Code: "XELA", Name: "Quetzaltenango Airstrip", Lat: 14.8656, Lng: -91.5020},
	"HUEHUE":          {Code: "HUEHUE", Name: "Huehuetenango", Lat: 15.3197, Lng: -91.4708},
}

// ResolveLocation maps a route code to its coordinates. A code outside the
// table is a custom point with undefined distance and must fail loudly
// instead of pricing to zero.
func ResolveLocation(code string) (Location, error) {
	loc, ok := locations[code]
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", domain.ErrUnresolvableLocation, code)
	}
	return loc, nil
}

// Locations returns the full table sorted by code.
func Locations() []Location {
	out := make([]Location, 0, len(locations))
	for _, loc := range locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
