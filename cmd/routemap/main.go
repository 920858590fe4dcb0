package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/sudorandom/routemap/pkg/geodesy"
	"github.com/sudorandom/routemap/pkg/logging"
	"github.com/sudorandom/routemap/pkg/mapengine"
	"github.com/sudorandom/routemap/pkg/utils"
	"go.uber.org/zap"
)

type CLI struct {
	Logbook string `arg:"" type:"path" help:"Logbook CSV with departure and arrival columns."`
	Home    string `arg:"" optional:"" help:"Home base airport code. Defaults to the most frequent departure."`

	Output     string  `short:"o" default:"great_circle_route.png" type:"path" help:"Output file; a .pdf extension writes vector PDF, anything else PNG."`
	LabelMin   int     `default:"10" help:"Minimum flights for a destination to be labelled."`
	Airports   string  `type:"path" help:"OurAirports airports.csv. Downloaded and cached when omitted."`
	Index      string  `type:"path" help:"Directory of an on-disk airport index, built on first use."`
	DPI        float64 `name:"dpi" default:"400" help:"Raster resolution."`
	Width      float64 `default:"16" help:"Map width in inches."`
	Height     float64 `default:"8" help:"Map height in inches."`
	Projection string  `default:"equirectangular" enum:"equirectangular,mollweide" help:"Map projection (${enum})."`
	Samples    int     `default:"100" help:"Points per great-circle arc."`
	CacheDir   string  `default:"data/cache" type:"path" help:"Where downloaded data is cached."`
	NoBasemap  bool    `help:"Skip the Natural Earth land, coastline and border layers."`
	Debug      bool    `help:"Enable debug logging."`

	Config kong.ConfigFlag `help:"JSON file supplying flag defaults."`
}

func (c *CLI) engineConfig() mapengine.Config {
	cfg := mapengine.DefaultConfig()
	cfg.WidthIn, cfg.HeightIn = c.Width, c.Height
	cfg.DPI = c.DPI
	cfg.LabelMin = c.LabelMin
	cfg.Projection = c.Projection
	cfg.Samples = c.Samples
	if cfg.Samples < 2 {
		cfg.Samples = geodesy.DefaultSamples
	}
	return cfg
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("routemap"),
		kong.Description("Render a pilot logbook as a great-circle route frequency map."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON),
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	log := logging.New(cli.Debug)
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, log, utils.NewFetcher(cli.CacheDir, log.Named("fetch"))); err != nil {
		log.Error("failed to render route map", zap.Error(err))
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}
