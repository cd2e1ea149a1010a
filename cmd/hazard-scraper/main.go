// hazard-scraper pulls the transit and road feeds the map overlays and
// writes them as normalized JSON snapshots for the frontend.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"github.com/sudorandom/hazard-map/pkg/config"
	"github.com/sudorandom/hazard-map/pkg/sources"
)

type context struct {
	log    *logrus.Logger
	client *sources.Client
	cfg    *config.Config
	outDir string
}

type septaCmd struct{}

func (septaCmd) Run(ctx *context) error {
	alerts, err := ctx.client.FetchSeptaAlerts(ctx.cfg.Sources.SeptaURL)
	if err != nil {
		return err
	}
	ctx.log.Infof("SEPTA: %d active alerts", len(alerts))
	return sources.WriteSnapshot(ctx.outDir, "septa.json", "septa", alerts)
}

type amtrakCmd struct{}

func (amtrakCmd) Run(ctx *context) error {
	trains, err := ctx.client.FetchAmtrakTrains(ctx.cfg.Sources.AmtrakURL)
	if err != nil {
		return err
	}
	ctx.log.Infof("Amtrak: %d trains with positions", len(trains))
	return sources.WriteSnapshot(ctx.outDir, "amtrak.json", "amtrak", trains)
}

type roadsCmd struct {
	APIKey string `help:"511PA API key (overrides config)." env:"PA511_API_KEY"`
}

func (r roadsCmd) Run(ctx *context) error {
	key := r.APIKey
	if key == "" {
		key = ctx.cfg.Sources.RoadsAPIKey
	}
	conditions, err := ctx.client.FetchRoadConditions(ctx.cfg.Sources.RoadsURL, key)
	if err != nil {
		return err
	}
	ctx.log.Infof("511PA: %d road conditions", len(conditions))
	return sources.WriteSnapshot(ctx.outDir, "roads.json", "511pa", conditions)
}

type allCmd struct {
	APIKey string `help:"511PA API key (overrides config)." env:"PA511_API_KEY"`
}

// Run fetches every feed; one feed failing should not block the others, so
// failures are logged and the last one is returned.
func (a allCmd) Run(ctx *context) error {
	var lastErr error
	if err := (septaCmd{}).Run(ctx); err != nil {
		ctx.log.Warnf("SEPTA failed: %v", err)
		lastErr = err
	}
	if err := (amtrakCmd{}).Run(ctx); err != nil {
		ctx.log.Warnf("Amtrak failed: %v", err)
		lastErr = err
	}
	if err := (roadsCmd{APIKey: a.APIKey}).Run(ctx); err != nil {
		ctx.log.Warnf("511PA failed: %v", err)
		lastErr = err
	}
	return lastErr
}

var cli struct {
	Config string `help:"Path to YAML config file." type:"path"`
	Out    string `help:"Snapshot output directory (overrides config)." type:"path"`

	Septa  septaCmd  `cmd:"" help:"Fetch SEPTA service alerts."`
	Amtrak amtrakCmd `cmd:"" help:"Fetch Amtrak train positions."`
	Roads  roadsCmd  `cmd:"" help:"Fetch 511PA road conditions."`
	All    allCmd    `cmd:"" help:"Fetch every feed."`
}

func main() {
	k := kong.Parse(&cli,
		kong.Name("hazard-scraper"),
		kong.Description("Fetches transit and road feeds into JSON snapshots."),
	)

	log := logrus.New()

	cfg, err := config.Load(cli.Config)
	k.FatalIfErrorf(err)

	outDir := cfg.Sources.OutputDir
	if cli.Out != "" {
		outDir = cli.Out
	}

	err = k.Run(&context{
		log:    log,
		client: sources.NewClient(),
		cfg:    cfg,
		outDir: outDir,
	})
	k.FatalIfErrorf(err)
}
