// TaskWebService is a web service that provides CRUD operations for tasks.
//
// It stores tasks in a single tasks table of a relational database. PostgreSQL,
// MySQL and SQLite are supported; the driver is picked from the connection
// string or set with --database-driver. The table must already exist.
// Prometheus metrics are exposed on /metrics and CORS is open to every origin.
//
// The following endpoints are available:
//
//  1. GET /health_check - Liveness check
//  2. GET /tasks - List all tasks
//  3. POST /tasks - Create a new task
//  4. PUT /tasks/{id} - Update an existing task
//  5. DELETE /tasks/{id} - Delete an existing task
//  6. GET /metrics - Display Prometheus metrics
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"TaskWebService/handlers"
	"TaskWebService/store"
)

var log = logrus.New()

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file loaded")
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "taskwebservice",
		Usage: "serve CRUD operations over the tasks table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "port or host:port to listen on",
				Value:   "8080",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "connection string of the database",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "database-driver",
				Usage:   "postgres, mysql or sqlite; inferred from the url when empty",
				EnvVars: []string{"DATABASE_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "max-open-conns",
				Value:   10,
				EnvVars: []string{"DB_MAX_OPEN_CONNS"},
			},
			&cli.IntFlag{
				Name:    "max-idle-conns",
				Value:   5,
				EnvVars: []string{"DB_MAX_IDLE_CONNS"},
			},
			&cli.DurationFlag{
				Name:    "conn-max-lifetime",
				Value:   30 * time.Minute,
				EnvVars: []string{"DB_CONN_MAX_LIFETIME"},
			},
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Value: 10 * time.Second,
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.JSONFormatter{})

	taskStore, err := store.Open(c.Context, c.String("database-driver"), c.String("database-url"), store.PoolConfig{
		MaxOpenConns:    c.Int("max-open-conns"),
		MaxIdleConns:    c.Int("max-idle-conns"),
		ConnMaxLifetime: c.Duration("conn-max-lifetime"),
	})
	if err != nil {
		log.WithField("error", err.Error()).Fatal("could not connect to the database")
	}
	defer taskStore.Close()
	log.WithField("driver", taskStore.Dialect().Name).Info("connected to the database")

	metrics := handlers.NewMetrics(prometheus.DefaultRegisterer)
	taskHandler := handlers.New(taskStore, log, metrics)

	server := &http.Server{
		Addr:    listenAddr(c.String("addr")),
		Handler: newRouter(taskHandler, prometheus.DefaultGatherer),
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("Server listening on " + server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errs:
		return err
	case <-stop:
	}
	log.Info("shut down signal received")

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("shutdown-timeout"))
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("shut down gracefully")
	return nil
}

// newRouter serves the task endpoints next to /metrics, with CORS open to
// every origin, method and header.
func newRouter(taskHandler *handlers.TaskHandler, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/", taskHandler.Routes())
	return cors.AllowAll().Handler(mux)
}

// listenAddr accepts a bare port, as PORT is usually given, or a host:port.
func listenAddr(addr string) string {
	for _, r := range addr {
		if r < '0' || r > '9' {
			return addr
		}
	}
	return ":" + addr
}
