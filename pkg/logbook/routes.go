package logbook

import (
	"fmt"
	"sort"
)

// Frequencies maps a destination airport code to the number of legs flown
// between it and the home base, in either direction.
type Frequencies map[string]int

// Route is one destination and how often it was flown.
type Route struct {
	Code  string
	Count int
}

// FindHomeBase returns override when it is non-empty. Otherwise it returns
// the most frequent origin; on a tie the code that reached the maximum count
// first in input order wins.
func FindHomeBase(legs []Leg, override string) (string, error) {
	if code := NormalizeCode(override); code != "" {
		return code, nil
	}
	if len(legs) == 0 {
		return "", fmt.Errorf("%w: cannot determine a home base without flight legs", ErrEmptyDataset)
	}

	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, leg := range legs {
		counts[leg.Origin]++
		if c := counts[leg.Origin]; c > bestCount {
			best, bestCount = leg.Origin, c
		}
	}
	return best, nil
}

// CountRouteFrequencies counts, for every airport other than home, the legs
// flown between it and home. Legs not touching home and self-loops at home
// are ignored.
func CountRouteFrequencies(legs []Leg, home string) Frequencies {
	freqs := make(Frequencies)
	for _, leg := range legs {
		switch {
		case leg.Origin == home && leg.Destination == home:
			// self-loop
		case leg.Origin == home:
			freqs[leg.Destination]++
		case leg.Destination == home:
			freqs[leg.Origin]++
		}
	}
	return freqs
}

// Total returns the number of legs counted.
func (f Frequencies) Total() int {
	total := 0
	for _, c := range f {
		total += c
	}
	return total
}

// Max returns the highest count, or 0 for an empty set.
func (f Frequencies) Max() int {
	best := 0
	for _, c := range f {
		if c > best {
			best = c
		}
	}
	return best
}

// Routes returns the routes in ascending count order, ties broken by code so
// the order is reproducible.
func (f Frequencies) Routes() []Route {
	routes := make([]Route, 0, len(f))
	for code, c := range f {
		routes = append(routes, Route{Code: code, Count: c})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Count != routes[j].Count {
			return routes[i].Count < routes[j].Count
		}
		return routes[i].Code < routes[j].Code
	})
	return routes
}
