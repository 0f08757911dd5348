package main

import (
	"context"
	"log"
	"net/http"

	"github.com/elyas-hassan/wbot/internal/config"
	"github.com/elyas-hassan/wbot/internal/serverapp"
)

func main() {
	cfg, err := config.LoadOrDefault("wbot_config.yml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Alerts.RemindTo == "" {
		log.Printf("[warn] alerts.remind_to is not set; reminders will fail until it is configured")
	}

	app, err := serverapp.New(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	go app.Scheduler.Run(context.Background())

	log.Printf("wbot listening on %s (relay: %s)", cfg.Listen, cfg.Relay.URL)
	log.Fatal(http.ListenAndServe(cfg.Listen, app.Handler))
}
