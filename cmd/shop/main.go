package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/service"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/infrastructure/config"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/infrastructure/event"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/infrastructure/memory"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/infrastructure/mysql"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/infrastructure/transport"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  "shop",
		Usage: "transactional cart/order workflows over relational storage",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply MySQL schema migrations and exit",
				Action: runMigrations,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("shop exited")
	}
}

func serve(_ *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	uow, err := newUnitOfWork(cfg)
	if err != nil {
		return err
	}

	dispatcher := event.NewLogDispatcher()
	products := service.NewProductService(uow, dispatcher)
	carts := service.NewCartService(uow, dispatcher)
	orders := service.NewOrderService(uow, dispatcher)

	router := transport.Router(products, carts, orders)
	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}

	log.WithFields(log.Fields{"addr": cfg.HTTPAddress, "storage": cfg.Storage}).Info("starting server")
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	waitForKillSignal(getKillSignalChan())
	return srv.Shutdown(context.Background())
}

func runMigrations(_ *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	db, err := sqlx.Connect("mysql", cfg.MySQLDSN)
	if err != nil {
		return errors.Wrap(err, "connect to mysql")
	}
	defer db.Close()

	if err := mysql.Migrate(db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func newUnitOfWork(cfg *config.Config) (model.UnitOfWork, error) {
	switch cfg.Storage {
	case "memory":
		store, err := memory.NewStore()
		if err != nil {
			return nil, err
		}
		return store, nil
	case "mysql":
		db, err := sqlx.Connect("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, errors.Wrap(err, "connect to mysql")
		}
		if err := mysql.Migrate(db); err != nil {
			return nil, err
		}
		return mysql.NewUnitOfWork(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage)
	}
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignal(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("Got SIGINT...")
	case syscall.SIGTERM:
		log.Info("Got SIGTERM...")
	}
}
