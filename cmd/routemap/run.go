package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sudorandom/routemap/pkg/airports"
	"github.com/sudorandom/routemap/pkg/logbook"
	"github.com/sudorandom/routemap/pkg/mapengine"
	"github.com/sudorandom/routemap/pkg/sources"
	"github.com/sudorandom/routemap/pkg/utils"
	"go.uber.org/zap"
)

// Run reads the logbook, resolves airports, and renders the map.
func (c *CLI) Run(ctx context.Context, log *zap.Logger, fetcher *utils.Fetcher) error {
	legs, stats, err := logbook.ReadLegsFile(c.Logbook)
	if err != nil {
		return err
	}
	log.Info("loaded logbook",
		zap.String("path", c.Logbook),
		zap.Int("legs", len(legs)),
		zap.Int("skipped_rows", stats.Skipped))

	home, err := logbook.FindHomeBase(legs, c.Home)
	if err != nil {
		return err
	}
	log.Info("home base", zap.String("code", home), zap.Bool("override", c.Home != ""))

	freqs := logbook.CountRouteFrequencies(legs, home)
	if len(freqs) == 0 {
		return fmt.Errorf("%w: no routes found from or to %s", logbook.ErrEmptyDataset, home)
	}

	table, err := c.loadAirports(ctx, fetcher, neededCodes(home, freqs), log)
	if err != nil {
		return err
	}

	var basemap *mapengine.Basemap
	if !c.NoBasemap {
		basemap = mapengine.LoadBasemap(ctx, sources.NaturalEarth{Fetcher: fetcher}, log.Named("basemap"))
	}

	engine, err := mapengine.NewEngine(c.engineConfig(), basemap, log.Named("render"))
	if err != nil {
		return err
	}
	plan, err := engine.Plan(home, freqs, table)
	if err != nil {
		return err
	}
	if len(plan.Missing) > 0 {
		log.Warn("skipping airports without coordinates", zap.Strings("codes", plan.Missing))
	}
	if len(plan.Routes) == 0 {
		log.Warn("no routes could be placed on the map", zap.String("home", home))
	}

	summary := logbook.Summarize(legs, home, freqs, table)
	log.Info("route summary",
		zap.Int("legs", summary.Legs),
		zap.Int("home_legs", summary.HomeLegs),
		zap.Int("destinations", summary.Destinations),
		zap.Int("max_frequency", plan.MaxCount),
		zap.Float64("distance_nm", summary.DistanceNM),
		zap.Strings("countries", summary.Countries),
		zap.Strings("labelled", plan.Labels()))
	for _, r := range plan.Routes {
		log.Debug("route", zap.String("code", r.Code), zap.Int("count", r.Count), zap.Float64("t", r.T))
	}

	return engine.Render(c.Output, plan)
}

func neededCodes(home string, freqs logbook.Frequencies) []string {
	codes := make([]string, 0, len(freqs)+1)
	codes = append(codes, home)
	for code := range freqs {
		codes = append(codes, code)
	}
	return codes
}

// loadAirports returns the coordinate table, going through the on-disk
// index when one is configured. An empty index is filled from the CSV.
func (c *CLI) loadAirports(ctx context.Context, fetcher *utils.Fetcher, codes []string, log *zap.Logger) (*airports.Table, error) {
	if c.Index == "" {
		return c.readAirports(ctx, fetcher)
	}

	idx, err := airports.OpenIndex(c.Index)
	if err != nil {
		return nil, fmt.Errorf("opening airport index: %w", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			log.Warn("closing airport index", zap.Error(err))
		}
	}()

	n, err := idx.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		full, err := c.readAirports(ctx, fetcher)
		if err != nil {
			return nil, err
		}
		if err := idx.Import(full); err != nil {
			return nil, fmt.Errorf("building airport index: %w", err)
		}
		log.Info("built airport index", zap.String("dir", c.Index), zap.Int("airports", full.Len()))
	}
	return idx.Resolve(codes)
}

func (c *CLI) readAirports(ctx context.Context, fetcher *utils.Fetcher) (*airports.Table, error) {
	if c.Airports == "" {
		return sources.LoadAirports(ctx, fetcher)
	}
	f, err := os.Open(c.Airports)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", logbook.ErrInput, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return airports.LoadOurAirports(f)
}
