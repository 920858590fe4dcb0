// Package sources knows where the remote data sets behind a route map live
// and how to fetch them through the download cache.
package sources

import (
	"context"
	"fmt"
	"io"

	"github.com/sudorandom/routemap/pkg/mapengine"
	"github.com/sudorandom/routemap/pkg/utils"
)

// BasemapURLs maps each base map layer to its Natural Earth GeoJSON file.
var BasemapURLs = map[string]string{
	mapengine.LayerOcean:     OceanURL,
	mapengine.LayerLand:      LandURL,
	mapengine.LayerCoastline: CoastlineURL,
	mapengine.LayerBorders:   BordersURL,
}

// NaturalEarth serves base map layers from the Natural Earth GeoJSON
// mirror, cached on disk by the fetcher.
type NaturalEarth struct {
	Fetcher *utils.Fetcher
}

var _ mapengine.LayerSource = NaturalEarth{}

// Open returns a reader for the named layer's GeoJSON.
func (n NaturalEarth) Open(ctx context.Context, layer string) (io.ReadCloser, error) {
	url, ok := BasemapURLs[layer]
	if !ok {
		return nil, fmt.Errorf("unknown base map layer: %s", layer)
	}
	return n.Fetcher.GetCachedReader(ctx, url)
}
