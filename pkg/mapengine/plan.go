package mapengine

import (
	"fmt"
	"sort"

	"github.com/sudorandom/routemap/pkg/airports"
	"github.com/sudorandom/routemap/pkg/logbook"
	"github.com/sudorandom/routemap/pkg/style"
)

// PlannedRoute is a route that will be drawn, with its styling resolved.
type PlannedRoute struct {
	logbook.Route
	Airport  airports.Airport
	T        float64
	Style    style.Style
	Marker   style.MarkerStyle
	Labelled bool
}

// Plan is everything the renderer needs for one map.
type Plan struct {
	Home      airports.Airport
	HomeKnown bool
	// Routes in ascending count order, so the busiest are drawn on top.
	Routes []PlannedRoute
	// Missing holds the distinct codes without coordinates, sorted.
	Missing  []string
	MaxCount int
}

// BuildPlan resolves freqs against table. Routes whose destination or home
// has no coordinates are skipped and reported in Missing. Intensity is each
// count over the largest drawn count; routes with at least labelMin flights
// get a label.
func BuildPlan(home string, freqs logbook.Frequencies, table *airports.Table, labelMin int) (*Plan, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("%w: no routes found from or to %s", logbook.ErrEmptyDataset, home)
	}

	p := &Plan{Home: airports.Airport{Code: home}}
	missing := make(map[string]struct{})

	if a, ok := table.Lookup(home); ok {
		p.Home, p.HomeKnown = a, true
	} else {
		missing[home] = struct{}{}
	}

	for _, r := range freqs.Routes() {
		a, ok := table.Lookup(r.Code)
		if !ok {
			missing[r.Code] = struct{}{}
			continue
		}
		if !p.HomeKnown {
			continue
		}
		p.Routes = append(p.Routes, PlannedRoute{Route: r, Airport: a})
		if r.Count > p.MaxCount {
			p.MaxCount = r.Count
		}
	}

	for i := range p.Routes {
		r := &p.Routes[i]
		r.T = style.Intensity(r.Count, p.MaxCount)
		r.Style = style.EncodeIntensity(r.T)
		r.Marker = style.DestinationMarker(r.T)
		r.Labelled = r.Count >= labelMin
	}

	for code := range missing {
		p.Missing = append(p.Missing, code)
	}
	sort.Strings(p.Missing)
	return p, nil
}

// Labels returns the codes of labelled destinations, busiest first.
func (p *Plan) Labels() []string {
	var codes []string
	for i := len(p.Routes) - 1; i >= 0; i-- {
		if p.Routes[i].Labelled {
			codes = append(codes, p.Routes[i].Code)
		}
	}
	return codes
}
