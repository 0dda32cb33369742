package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/config"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/repository"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/repository/storage"
	natstransport "github.com/rocketscienceinc/tictactoe-matchmaker/internal/transport/nats"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-matchmaker/transport/rest"
	"github.com/rocketscienceinc/tictactoe-matchmaker/transport/websocket"
)

// RunApp - runs the application.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	var results repository.ResultRepository
	if conf.Redis.Enabled {
		redisClient, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisClient.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		results = repository.NewResultRepository(redisClient, conf.Redis.ResultsTTL)
		log.Info("Match results are stored in redis", "addr", conf.Redis.GetRedisAddr())
	}

	var publisher *natstransport.Publisher
	if conf.NATS.URL != "" {
		var err error
		if publisher, err = natstransport.New(conf.NATS.URL, conf.NATS.SubjectPrefix); err != nil {
			return fmt.Errorf("could not connect to nats: %w", err)
		}

		defer func() {
			if err = publisher.Close(); err != nil {
				log.Error("could not close nats connection", "error", err)
			}
		}()

		log.Info("Match events are published to nats", "url", conf.NATS.URL)
	}

	reporter := newReporter(logger, results, publisher)
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		reporter.Run(ctx)
	}()

	gameManager := usecase.NewGameManager(logger, usecase.GameSettings{
		BoardSize:       conf.Game.BoardSize,
		WinLength:       conf.Game.WinLength,
		CoalesceUpdates: conf.Game.CoalesceUpdates,
	}, reporter)

	hub := websocket.NewHub(logger, gameManager, conf.Game.SendBuffer)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, results, hub)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	var err error
	select {
	case err = <-httpErrCh:
		err = fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		err = fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	cancel()
	<-hubDone
	<-reporterDone

	return err
}

// newReporter keeps disabled sinks as untyped nils so the reporter skips them.
func newReporter(logger *slog.Logger, results repository.ResultRepository, publisher *natstransport.Publisher) *usecase.Reporter {
	if publisher == nil {
		return usecase.NewReporter(logger, results, nil, 0)
	}

	return usecase.NewReporter(logger, results, publisher, 0)
}
