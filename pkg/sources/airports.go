package sources

import (
	"context"
	"fmt"
	"io"

	"github.com/sudorandom/routemap/pkg/airports"
	"github.com/sudorandom/routemap/pkg/utils"
)

// OpenOurAirports returns the OurAirports airports.csv, downloading it into
// the cache on first use.
func OpenOurAirports(ctx context.Context, f *utils.Fetcher) (io.ReadCloser, error) {
	return f.GetCachedReader(ctx, OurAirportsURL)
}

// LoadAirports fetches and parses the OurAirports table.
func LoadAirports(ctx context.Context, f *utils.Fetcher) (*airports.Table, error) {
	rc, err := OpenOurAirports(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetching airports: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()
	return airports.LoadOurAirports(rc)
}
