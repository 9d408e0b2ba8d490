package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DedS3t/monopoly-server/app/controllers"
	"github.com/DedS3t/monopoly-server/pkg/routes"
	"github.com/DedS3t/monopoly-server/platform/board"
	"github.com/DedS3t/monopoly-server/platform/cache"
	"github.com/DedS3t/monopoly-server/platform/config"
	"github.com/DedS3t/monopoly-server/platform/logging"
	"github.com/DedS3t/monopoly-server/platform/room"
	socket "github.com/DedS3t/monopoly-server/platform/sockets"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := logging.Init(cfg)

	decks, err := board.LoadDecks()
	if err != nil {
		log.WithError(err).Fatal("loading card decks")
	}

	dir := directory(cfg, log)
	publisher := cache.NewPublisher(dir, 0, log)

	rooms := room.NewRegistry(room.Options{
		Decks:       decks,
		DefaultMode: cfg.DefaultMode,
		Logger:      log,
		Listener:    publisher,
	})

	sockets, err := socket.NewServer(rooms, log)
	if err != nil {
		log.WithError(err).Fatal("creating socket.io server")
	}
	go func() {
		if err := sockets.Serve(); err != nil {
			log.WithError(err).Error("socket.io server stopped")
		}
	}()
	go func() {
		log.WithField("addr", cfg.SocketAddr).Info("socket.io listening")
		if err := http.ListenAndServe(cfg.SocketAddr, sockets.Handler(cfg.CORSAllow)); err != nil {
			log.WithError(err).Fatal("socket listener")
		}
	}()

	app := fiber.New()
	app.Use(cors.New())
	routes.GameRoutes(app, controllers.NewGameController(dir, log))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		_ = app.Shutdown()
	}()

	log.WithField("addr", cfg.HTTPAddr).Info("http listening")
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.WithError(err).Error("http server stopped")
	}
	_ = sockets.Close()
	publisher.Close()
}

// directory prefers redis when configured and reachable.
func directory(cfg config.Config, log logrus.FieldLogger) cache.Directory {
	if cfg.RedisURL == "" {
		return cache.NewMemoryDirectory()
	}
	rd := cache.NewRedisDirectory(cache.CreateRedisPool(cfg.RedisURL))
	if err := rd.Ping(); err != nil {
		log.WithError(err).Warn("redis unreachable, using in-memory room directory")
		return cache.NewMemoryDirectory()
	}
	return rd
}
