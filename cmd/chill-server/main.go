// Package main is the entry point for the ChillMCP office server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/chillmcp/server/internal/engine"
	"github.com/chillmcp/server/internal/events"
	"github.com/chillmcp/server/internal/infra/storage"
	"github.com/chillmcp/server/internal/network"
	"github.com/chillmcp/server/internal/platform/config"
	"github.com/chillmcp/server/internal/platform/logger"
	"github.com/chillmcp/server/internal/platform/metrics"
)

// SQLitePersisterAdapter translates domain events to storage events.
type SQLitePersisterAdapter struct {
	repo *storage.SQLiteEventRepository
}

func (a *SQLitePersisterAdapter) Append(event events.OfficeEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	storageEvent := storage.OfficeEvent{
		ID:        event.ID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Actor:     event.Actor,
		Payload:   payloadMap,
	}
	err := a.repo.Append(context.Background(), storageEvent)
	metrics.Get().RecordEventWrite(err)
	return err
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard is same-origin in dev; tighten before exposing publicly.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed: " + err.Error())
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	appLogger := logger.NewLogger()
	appLogger.Info("Initializing ChillMCP office server...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.Error("Invalid configuration: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Initializing SQLite database '" + cfg.DatabasePath + "'...")
	db, err := storage.InitSQLite(cfg.DatabasePath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()
	eventRepo := storage.NewSQLiteEventRepository(db)
	eventPersister := &SQLitePersisterAdapter{repo: eventRepo}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(eventPersister)

	appLogger.Info("Bootstrapping State Manager...")
	manager := engine.NewManager(engine.Options{
		BossAlertness:         cfg.BossAlertness,
		BossAlertnessCooldown: cfg.CooldownDuration(),
		StressInterval:        cfg.StressIntervalDuration(),
		MaxAlertDelay:         cfg.MaxAlertDelayDuration(),
	}, eventLog, appLogger)
	defer manager.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(manager, appLogger, cfg.BroadcastBuffer, cfg.ClientSendBuffer)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	breakDesk := network.NewBreakDesk(manager, appLogger)
	breakDesk.RegisterRoutes(mux)

	historyHandler := network.NewHistoryHandler(eventLog, appLogger)
	historyHandler.RegisterRoutes(mux)

	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"state":  manager.CurrentState(),
		})
	})

	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	// Graceful shutdown on SIGINT/SIGTERM: stop the drift first, then the listener.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Shutdown signal received.")
		manager.Shutdown()
		cancel()
		server.Shutdown(context.Background())
	}()

	appLogger.Info("ChillMCP server listening on " + cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLogger.Error("HTTP server error: " + err.Error())
		os.Exit(1)
	}
	appLogger.Info("Server stopped. Go home, it's late.")
}
