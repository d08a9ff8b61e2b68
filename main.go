package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	// cli arguments
	configPath := flag.String("config_path", "./config.yml", "Path to the config yml file")
	flag.Parse()

	config, err := GetConfig(*configPath)
	if err != nil {
		log.Panic(err)
	}

	InitLogFile(config.LogPath)
	logger, err := CreateLogger("main")
	if err != nil {
		log.Panic(err)
	}

	logger.WithFields(StructFields(config)).Debug("Loaded config")

	sqlite, err := NewSqlite(config.DatabasePath)
	if err != nil {
		logger.Panic(err)
	}
	defer sqlite.Close()

	if err := sqlite.RunMigrations(); err != nil {
		logger.Panic(err)
	}

	jobs, err := sqlite.GetJobs()
	if err != nil {
		logger.Panic(err)
	}
	logger.Infof("Loaded %d pending jobs", len(jobs))

	hubLogger, err := CreateLogger("ws")
	if err != nil {
		logger.Panic(err)
	}
	hub := NewHub(hubLogger)
	queue := NewQueue(jobs, hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolWorker := NewPoolWorker(ctx, queue, &config, sqlite, hub, logger)
	if err := poolWorker.CreateWorkers(); err != nil {
		logger.Panic(err)
	}

	httpLogger, err := CreateLogger("http")
	if err != nil {
		logger.Panic(err)
	}

	app := &App{config: &config, sqlite: sqlite, queue: queue, poolWorker: poolWorker}
	r := gin.New()
	r.Use(gin.Recovery(), LoggerMiddleware(httpLogger))
	app.RegisterRoutes(r)
	r.GET("/ws", hub.HandleConnections)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.BindAddress, config.Port),
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		poolWorker.RunDispatcher()
		return nil
	})
	g.Go(func() error {
		logger.Info("Listening on ", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stop()
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(err)
	}
	logger.Info("Stopped")
}
