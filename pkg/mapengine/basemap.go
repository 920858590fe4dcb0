package mapengine

import (
	"context"
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"
	"github.com/sudorandom/routemap/pkg/geodesy"
	"go.uber.org/zap"
)

// Layer is one base map feature collection: filled polygons (each a list of
// rings, outer first) and stroked lines.
type Layer struct {
	Polygons [][][]geodesy.Point
	Lines    [][]geodesy.Point
}

// Empty reports whether the layer has nothing to draw.
func (l *Layer) Empty() bool {
	return l == nil || (len(l.Polygons) == 0 && len(l.Lines) == 0)
}

// Basemap holds the static layers drawn under the routes. Any layer may be
// nil.
type Basemap struct {
	Ocean     *Layer
	Land      *Layer
	Coastline *Layer
	Borders   *Layer
}

// LayerSource opens a named base map layer as GeoJSON.
type LayerSource interface {
	Open(ctx context.Context, layer string) (io.ReadCloser, error)
}

// Base map layer names understood by LoadBasemap.
const (
	LayerOcean     = "ocean"
	LayerLand      = "land"
	LayerCoastline = "coastline"
	LayerBorders   = "borders"
)

// LoadBasemap reads every layer from src. A layer that can't be fetched or
// parsed is logged and left out; the map still renders without it.
func LoadBasemap(ctx context.Context, src LayerSource, log *zap.Logger) *Basemap {
	if log == nil {
		log = zap.NewNop()
	}
	bm := &Basemap{}
	for _, target := range []struct {
		name string
		dst  **Layer
	}{
		{LayerOcean, &bm.Ocean},
		{LayerLand, &bm.Land},
		{LayerCoastline, &bm.Coastline},
		{LayerBorders, &bm.Borders},
	} {
		layer, err := loadLayer(ctx, src, target.name)
		if err != nil {
			log.Warn("base map layer unavailable", zap.String("layer", target.name), zap.Error(err))
			continue
		}
		log.Debug("loaded base map layer",
			zap.String("layer", target.name),
			zap.Int("polygons", len(layer.Polygons)),
			zap.Int("lines", len(layer.Lines)))
		*target.dst = layer
	}
	return bm
}

func loadLayer(ctx context.Context, src LayerSource, name string) (*Layer, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	return ParseBasemapLayer(rc)
}

// ParseBasemapLayer decodes a GeoJSON FeatureCollection. Polygon and
// MultiPolygon geometries become polygons, LineString and MultiLineString
// become lines; anything else is ignored.
func ParseBasemapLayer(r io.Reader) (*Layer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse GeoJSON: %w", err)
	}

	layer := &Layer{}
	for _, f := range fc.Features {
		g := f.Geometry
		if g == nil {
			continue
		}
		switch {
		case g.IsPolygon():
			layer.Polygons = append(layer.Polygons, toRings(g.Polygon))
		case g.IsMultiPolygon():
			for _, poly := range g.MultiPolygon {
				layer.Polygons = append(layer.Polygons, toRings(poly))
			}
		case g.IsLineString():
			layer.Lines = append(layer.Lines, toPoints(g.LineString))
		case g.IsMultiLineString():
			for _, line := range g.MultiLineString {
				layer.Lines = append(layer.Lines, toPoints(line))
			}
		}
	}
	return layer, nil
}

func toRings(rings [][][]float64) [][]geodesy.Point {
	out := make([][]geodesy.Point, 0, len(rings))
	for _, ring := range rings {
		out = append(out, toPoints(ring))
	}
	return out
}

// toPoints converts GeoJSON [lng, lat] positions.
func toPoints(coords [][]float64) []geodesy.Point {
	out := make([]geodesy.Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		out = append(out, geodesy.Point{Lat: c[1], Lng: c[0]})
	}
	return out
}
