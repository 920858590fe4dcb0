// Package mapengine lays out and draws the route map: base map, graticule,
// great-circle routes weighted by frequency, and airport markers.
package mapengine

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/sudorandom/routemap/pkg/airports"
	"github.com/sudorandom/routemap/pkg/geodesy"
	"github.com/sudorandom/routemap/pkg/logbook"
	"github.com/sudorandom/routemap/pkg/style"
	"github.com/sudorandom/routemap/pkg/utils"
	"go.uber.org/zap"
)

// Layout constants in points.
const (
	pagePad    = 12.0
	titleBand  = 36.0
	titleInset = 12.0 // title baseline above the map
)

// Config controls the size and content of a map.
type Config struct {
	WidthIn, HeightIn float64
	DPI               float64
	LabelMin          int
	Projection        string
	Samples           int
	// Title overrides the default "<HOME>  ///  ROUTE MAP".
	Title string
}

func DefaultConfig() Config {
	return Config{
		WidthIn:    16,
		HeightIn:   8,
		DPI:        400,
		LabelMin:   10,
		Projection: ProjectionEquirectangular,
		Samples:    geodesy.DefaultSamples,
	}
}

type Engine struct {
	cfg     Config
	basemap *Basemap
	log     *zap.Logger

	proj    Projection
	canvasW float64
	canvasH float64
	mapRect Rect
}

// NewEngine validates cfg and lays out the canvas. basemap may be nil.
func NewEngine(cfg Config, basemap *Basemap, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.WidthIn <= 0 || cfg.HeightIn <= 0 {
		return nil, fmt.Errorf("invalid map size %gx%g in", cfg.WidthIn, cfg.HeightIn)
	}
	if cfg.DPI <= 0 {
		return nil, fmt.Errorf("invalid dpi %g", cfg.DPI)
	}
	if cfg.Samples < 2 {
		cfg.Samples = geodesy.DefaultSamples
	}

	e := &Engine{
		cfg:     cfg,
		basemap: basemap,
		log:     log,
		canvasW: cfg.WidthIn * 72,
		canvasH: cfg.HeightIn * 72,
	}

	// Fit a 2:1 world into what is left after padding and the title band.
	availW := e.canvasW - 2*pagePad
	availH := e.canvasH - 2*pagePad - titleBand
	if availW <= 0 || availH <= 0 {
		return nil, fmt.Errorf("map size %gx%g in is too small", cfg.WidthIn, cfg.HeightIn)
	}
	w, h := availW, availW/2
	if h > availH {
		w, h = availH*2, availH
	}
	e.mapRect = Rect{
		X: (e.canvasW - w) / 2,
		Y: pagePad + titleBand + (availH-h)/2,
		W: w,
		H: h,
	}

	proj, err := NewProjection(cfg.Projection, e.mapRect)
	if err != nil {
		return nil, err
	}
	e.proj = proj
	return e, nil
}

// Canvas returns the canvas size in points.
func (e *Engine) Canvas() (w, h float64) { return e.canvasW, e.canvasH }

// MapRect returns the area the world is projected into.
func (e *Engine) MapRect() Rect { return e.mapRect }

func (e *Engine) Projection() Projection { return e.proj }

// Plan resolves route frequencies into drawable routes using the
// configured label threshold.
func (e *Engine) Plan(home string, freqs logbook.Frequencies, table *airports.Table) (*Plan, error) {
	return BuildPlan(home, freqs, table, e.cfg.LabelMin)
}

// NewSurface returns the surface for path's format.
func (e *Engine) NewSurface(path string) (Surface, error) {
	if FormatFor(path) == FormatPDF {
		return NewPDFSurface(e.canvasW, e.canvasH), nil
	}
	return NewRasterSurface(e.canvasW, e.canvasH, e.cfg.DPI)
}

// Render draws plan and writes it to path, replacing any existing file only
// once the image is complete.
func (e *Engine) Render(path string, plan *Plan) error {
	s, err := e.NewSurface(path)
	if err != nil {
		return err
	}
	e.Draw(s, plan)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := utils.WriteFileAtomic(path, func(w io.Writer) error { return s.Encode(w) }); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	e.log.Info("saved route map", zap.String("path", path), zap.String("format", FormatFor(path)))
	return nil
}

// Draw paints the whole map. Later steps draw over earlier ones; the home
// marker always ends up on top.
func (e *Engine) Draw(s Surface, plan *Plan) {
	outline := e.proj.Outline()

	s.Fill(style.Background)
	s.FillPolygon([][]XY{outline}, style.Ocean, 1)
	e.drawBasemap(s)
	e.drawGraticule(s)
	s.Stroke(outline, style.FrameWidth, style.Coast, 1)
	e.drawTitle(s, plan)

	if plan == nil {
		return
	}
	e.drawRoutes(s, plan)
	e.drawMarkers(s, plan)
	e.drawHome(s, plan)
}

func (e *Engine) drawBasemap(s Surface) {
	if e.basemap == nil {
		return
	}
	if l := e.basemap.Ocean; l != nil {
		e.fillLayer(s, l, style.Ocean)
	}
	if l := e.basemap.Land; l != nil {
		e.fillLayer(s, l, style.Land)
	}

	if l := e.basemap.Coastline; !l.Empty() {
		e.strokeLayer(s, l, style.Coast, style.CoastWidth, 1)
	} else if l := e.basemap.Land; l != nil {
		// No coastline layer: outline the land instead.
		for _, poly := range l.Polygons {
			for _, ring := range poly {
				for _, part := range projectLine(e.proj, ring) {
					s.Stroke(part, style.CoastWidth, style.Coast, 1)
				}
			}
		}
	}

	if l := e.basemap.Borders; l != nil {
		e.strokeLayer(s, l, style.Border, style.BorderWidth, 1)
	}
}

func (e *Engine) fillLayer(s Surface, l *Layer, c color.RGBA) {
	for _, poly := range l.Polygons {
		rings := make([][]XY, 0, len(poly))
		for _, ring := range poly {
			if len(ring) < 3 {
				continue
			}
			rings = append(rings, projectRing(e.proj, ring))
		}
		s.FillPolygon(rings, c, 1)
	}
}

func (e *Engine) strokeLayer(s Surface, l *Layer, c color.RGBA, width, alpha float64) {
	for _, line := range l.Lines {
		for _, part := range projectLine(e.proj, line) {
			s.Stroke(part, width, c, alpha)
		}
	}
}

// Graticule spacing in degrees.
const (
	graticuleLat = 30
	graticuleLng = 60
	graticuleRes = 2
)

func (e *Engine) drawGraticule(s Surface) {
	for lat := -90 + graticuleLat; lat < 90; lat += graticuleLat {
		var line []geodesy.Point
		for lng := -180; lng <= 180; lng += graticuleRes {
			line = append(line, geodesy.Point{Lat: float64(lat), Lng: float64(lng)})
		}
		s.Stroke(projectRing(e.proj, line), style.GridWidth, style.Grid, style.GridAlpha)
	}
	for lng := -180 + graticuleLng; lng < 180; lng += graticuleLng {
		var line []geodesy.Point
		for lat := -90; lat <= 90; lat += graticuleRes {
			line = append(line, geodesy.Point{Lat: float64(lat), Lng: float64(lng)})
		}
		s.Stroke(projectRing(e.proj, line), style.GridWidth, style.Grid, style.GridAlpha)
	}
}

// Title returns the heading drawn above the map.
func (e *Engine) Title(plan *Plan) string {
	if e.cfg.Title != "" {
		return e.cfg.Title
	}
	home := ""
	if plan != nil {
		home = plan.Home.Code
	}
	return fmt.Sprintf("%s  ///  ROUTE MAP", home)
}

func (e *Engine) drawTitle(s Surface, plan *Plan) {
	title := e.Title(plan)
	sw, _ := s.Size()
	w := s.TextWidth(title, style.TitleSize)
	at := XY{X: (sw - w) / 2, Y: e.mapRect.Y - titleInset}
	s.Text(at, title, style.TitleSize, style.Text, 1)
}

func (e *Engine) drawRoutes(s Surface, plan *Plan) {
	if !plan.HomeKnown {
		return
	}
	home := plan.Home.Location
	for _, r := range plan.Routes {
		parts := projectLine(e.proj, geodesy.ArcPoints(home, r.Airport.Location, e.cfg.Samples))
		if len(parts) == 0 {
			continue
		}
		for _, glow := range r.Style.Glow {
			for _, part := range parts {
				s.Stroke(part, glow.Width, r.Style.Color, glow.Alpha)
			}
		}
		for _, part := range parts {
			s.Stroke(part, r.Style.Core.Width, r.Style.Color, r.Style.Core.Alpha)
		}
	}
}

func (e *Engine) drawMarkers(s Surface, plan *Plan) {
	for _, r := range plan.Routes {
		e.drawMarker(s, r.Airport, r.Marker, r.Labelled)
	}
}

func (e *Engine) drawHome(s Surface, plan *Plan) {
	if !plan.HomeKnown {
		return
	}
	e.drawMarker(s, plan.Home, style.HomeMarker(), true)
}

func (e *Engine) drawMarker(s Surface, a airports.Airport, m style.MarkerStyle, labelled bool) {
	at := e.proj.Project(a.Location)
	for _, d := range m.Dots {
		s.Circle(at, d.Size, d.Color, d.Alpha)
	}
	if !labelled {
		return
	}
	l := m.Label
	pos := e.proj.Project(geodesy.Point{
		Lat: math.Max(-90, math.Min(90, a.Location.Lat+l.OffsetLat)),
		Lng: math.Max(-180, math.Min(180, a.Location.Lng+l.OffsetLng)),
	})
	s.Text(pos, a.Code, l.Size, l.Color, l.Alpha)
}
