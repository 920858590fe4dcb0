package logbook

import (
	"sort"

	"github.com/skypies/geo"
	"github.com/sudorandom/routemap/pkg/airports"
)

// Summary describes a logbook relative to its home base.
type Summary struct {
	Home         string
	Legs         int      // all legs read
	HomeLegs     int      // legs counted towards a route
	Destinations int      // distinct airports flown to from home
	DistanceNM   float64  // great-circle distance over HomeLegs with known coordinates
	Countries    []string // country names of home and every destination, sorted
}

// Summarize computes run statistics. Airports missing from table contribute
// to the counts but not to distance or countries.
func Summarize(legs []Leg, home string, freqs Frequencies, table *airports.Table) Summary {
	s := Summary{
		Home:         home,
		Legs:         len(legs),
		HomeLegs:     freqs.Total(),
		Destinations: len(freqs),
	}

	homeAirport, homeKnown := table.Lookup(home)
	seen := make(map[string]bool)
	addCountry := func(a airports.Airport) {
		if name := a.CountryName(); name != "" && !seen[name] {
			seen[name] = true
			s.Countries = append(s.Countries, name)
		}
	}
	if homeKnown {
		addCountry(homeAirport)
	}

	for code, count := range freqs {
		dest, ok := table.Lookup(code)
		if !ok {
			continue
		}
		addCountry(dest)
		if homeKnown {
			s.DistanceNM += float64(count) * latlong(homeAirport).DistNM(latlong(dest))
		}
	}
	sort.Strings(s.Countries)
	return s
}

func latlong(a airports.Airport) geo.Latlong {
	return geo.Latlong{Lat: a.Location.Lat, Long: a.Location.Lng}
}
