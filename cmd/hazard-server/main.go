package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/sudorandom/hazard-map/pkg/alertengine"
	"github.com/sudorandom/hazard-map/pkg/config"
)

var (
	configFlag = flag.String("config", "", "Path to YAML config file (defaults apply if missing)")
	addrFlag   = flag.String("addr", "", "Listen address override (e.g. :8080)")
	debugFlag  = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *debugFlag {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}

	seen, err := alertengine.OpenSeenStore(cfg.Server.SeenDBPath)
	if err != nil {
		log.Fatalf("Failed to open seen-alert store: %v", err)
	}
	defer func() { _ = seen.Close() }()

	opts := alertengine.Options{
		AlertsURL:        cfg.Alerts.URL,
		UserAgent:        cfg.Alerts.UserAgent,
		MainFetchTimeout: cfg.Alerts.MainFetchTimeout(),
		ZoneFetchTimeout: cfg.Alerts.ZoneFetchTimeout(),
		TimeBudget:       cfg.Alerts.TimeBudget(),
		ZoneFetchCap:     cfg.Alerts.ZoneFetchCap,
		ZoneConcurrency:  cfg.Alerts.ZoneConcurrency,
		MaxZonesPerAlert: cfg.Alerts.MaxZonesPerAlert,
		Window:           alertengine.NewWindow(cfg.Window.MinLat, cfg.Window.MinLng, cfg.Window.MaxLat, cfg.Window.MaxLng),
	}
	engine := alertengine.NewEngine(opts, log, seen)

	go engine.StartRefreshLoop(cfg.Alerts.RefreshInterval())

	log.Infof("Listening on %s", cfg.Server.Addr)
	if err := engine.ListenAndServe(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}
