package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cardputer_radio/docs"
	"cardputer_radio/internal/config"
	"cardputer_radio/internal/handlers"
	"cardputer_radio/internal/logger"
	"cardputer_radio/internal/portal"
	"cardputer_radio/internal/publish"
	"cardputer_radio/internal/radio/sim"
	"cardputer_radio/internal/repository"
	"cardputer_radio/internal/repository/db"
	"cardputer_radio/internal/server"
	"cardputer_radio/internal/service"
	"cardputer_radio/internal/transfer"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
)

const (
	configDir       = "configs"
	restoreTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// load configs/config.yml + RADIO_* env
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.SigningKey == "" {
		log.Warnw("auth.signing_key is empty; sign-in and protected routes will fail")
	}

	// open DB
	conn, err := openDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// radio and its subsystems
	driver := sim.NewDriver()
	if cfg.Radio.StationConnected {
		driver.JoinNetwork()
	}
	captive := portal.New(driver, cfg.Portal.Addr, log)
	files, err := transferServer(cfg, log)
	if err != nil {
		log.Fatalw("failed to prepare transfer root", "err", err, "root", cfg.Transfer.Root)
	}

	client, pub := openPublisher(cfg.MQTT, log)
	defer publish.Close(client, publishOptions(cfg.MQTT))

	// wire dependencies
	repos := repository.NewRepository(conn)
	loop := service.NewLoop(service.LoopDeps{
		Driver:    driver,
		Portal:    captive,
		Transfer:  files,
		StateRepo: repos.StateRepo,
		EventRepo: repos.EventRepo,
		Publisher: pub,
		Log:       log,
	})

	restoreCtx, restoreCancel := context.WithTimeout(context.Background(), restoreTimeout)
	err = loop.Restore(restoreCtx)
	restoreCancel()
	if err != nil {
		log.Fatalw("failed to restore radio status", "err", err)
	}

	// started outside the coordinator; the loop adopts it on its first tick
	if cfg.Portal.Autostart != "" {
		captive.Start(cfg.Portal.Autostart)
	}

	// context for the main loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx, cfg.Loop.Tick)

	services := service.NewService(repos, loop, files, service.AuthConfig{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
		OpenSignUp: cfg.Auth.OpenSignUp,
	})
	apiHandler := handlers.NewHandler(services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, loop, srv, log)
}

// openDB initializes the SQLite database at path.
func openDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

func transferServer(cfg config.Config, log *logger.Logger) (*transfer.Server, error) {
	return transfer.NewOS(cfg.Transfer.Root, cfg.Transfer.Addr, log)
}

func publishOptions(m config.MQTTConfig) publish.Options {
	return publish.Options{
		Broker:      m.Broker,
		ClientID:    m.ClientID,
		Username:    m.Username,
		Password:    m.Password,
		TopicPrefix: m.TopicPrefix,
	}
}

// openPublisher connects to the broker when one is configured. A failed
// connection is logged and status publishing is skipped.
func openPublisher(m config.MQTTConfig, log *logger.Logger) (mqtt.Client, service.StatusPublisher) {
	if !m.Enabled() {
		log.Infow("mqtt disabled; no broker configured")
		return nil, nil
	}
	opts := publishOptions(m)
	client, err := publish.Connect(opts, log)
	if err != nil {
		log.Errorw("mqtt unavailable; status will not be published", "err", err)
		return nil, nil
	}
	return client, publish.NewPublisher(client, opts)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals, stops every radio mode
// and then drains the API server.
func waitForShutdown(cancel context.CancelFunc, loop *service.Loop, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the main loop; it runs StopAll on the way out
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	select {
	case <-loop.Done():
	case <-ctx.Done():
		log.Errorw("radio loop did not stop in time")
	}

	// allow in-flight requests to complete
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
