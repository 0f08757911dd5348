package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/elyas-hassan/wbot/internal/alert"
	"github.com/elyas-hassan/wbot/internal/bot"
	"github.com/elyas-hassan/wbot/internal/clock"
	"github.com/elyas-hassan/wbot/internal/config"
	"github.com/elyas-hassan/wbot/internal/httpmw"
	"github.com/elyas-hassan/wbot/internal/relay"
	"github.com/elyas-hassan/wbot/internal/task"
	"github.com/elyas-hassan/wbot/internal/telemetry"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger

	// Clock and Notifier are overridable for tests; nil means real clock
	// and the HTTP relay client from Config.
	Clock    clock.Clock
	Notifier relay.Notifier
}

// App is the assembled service: HTTP handler for the webhook side and the
// scheduler for the background side. Both share the one Store.
type App struct {
	Handler   http.Handler
	Store     *task.Store
	Processor *bot.Processor
	Scheduler *alert.Scheduler
	Events    *telemetry.MemoryRepository

	notifier    relay.Notifier
	sendTimeout time.Duration
	logger      *log.Logger
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = relay.NewClient(cfg.Relay.URL, cfg.SendTimeout())
	}

	store, err := task.NewStore(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}

	events := telemetry.NewMemoryRepository()
	processor := bot.NewProcessor(store, clk, events, logger)

	app := &App{
		Store:     store,
		Processor: processor,
		Events:    events,
		Scheduler: &alert.Scheduler{
			Store:       store,
			Notifier:    notifier,
			Clock:       clk,
			Events:      events,
			Logger:      logger,
			RemindTo:    cfg.Alerts.RemindTo,
			Interval:    cfg.AlertInterval(),
			Lookahead:   cfg.Lookahead(),
			SendTimeout: cfg.SendTimeout(),
		},
		notifier:    notifier,
		sendTimeout: cfg.SendTimeout(),
		logger:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/whatsapp-message", app.handleWebhook)
	mux.HandleFunc("/healthz", app.handleHealthz)
	mux.HandleFunc("/readyz", app.handleReadyz)
	mux.HandleFunc("/api/stats", app.handleStats)

	app.Handler = httpmw.Chain(
		mux,
		httpmw.WithAccessLog(logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
	)
	return app, nil
}

// handleWebhook receives one relayed chat message, runs it through the
// command processor and pushes the reply back out. The relay always gets a
// 200 once the payload decodes; a reply delivery failure is our problem,
// not the relay's.
func (a *App) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var msg relay.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid message payload")
		return
	}

	reply := a.Processor.Handle(msg)
	if reply != "" {
		ctx, cancel := context.WithTimeout(r.Context(), a.sendTimeout)
		defer cancel()
		if err := a.notifier.Send(ctx, msg.ReplyTarget(), reply); err != nil {
			a.logger.Printf("[server] send reply to %s: %v", msg.ReplyTarget(), err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "Message received and processed"})
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "wbot",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, err := a.Store.ListActive(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"ok":    false,
			"error": "task storage unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "wbot",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	stats := telemetry.CalculateStats(a.Events.Events(time.Time{}))
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
