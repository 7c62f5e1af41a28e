/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the HR portal core service: the leave-request
  eligibility/credit engine and the request approval lifecycle behind a
  REST API.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Open the SQLite store
  3. Wire the lifecycle service and API handler
  4. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: portal.db)
           Use ":memory:" for an in-memory database
  -seed    Seed a demo employee with starting balances

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/hr-portal/accrual"
	"github.com/warp/hr-portal/api"
	"github.com/warp/hr-portal/leave"
	"github.com/warp/hr-portal/lifecycle"
	"github.com/warp/hr-portal/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "portal.db", "SQLite database path")
	seed := flag.Bool("seed", false, "seed a demo employee with starting balances")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	if *seed {
		if err := seedDemo(context.Background(), store, log); err != nil {
			log.WithError(err).Fatal("failed to seed demo data")
		}
		log.Info("seeded demo employee emp-100")
	}

	svc := lifecycle.NewService(store, nil)
	handler := api.NewHandler(svc, store, log)
	handler.Holidays = demoHolidays()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}

// seedDemo loads a demo employee by running the standard accrual plan
// from the start of the year through today.
func seedDemo(ctx context.Context, store *sqlite.Store, log *logrus.Logger) error {
	granter := accrual.NewGranter(store, log)
	today := leave.DateOf(time.Now())
	_, err := granter.Apply(ctx, "emp-100", accrual.StandardPlan(15, 10, 5),
		leave.NewDate(today.Year(), time.January, 1), today)
	return err
}

// demoHolidays is a minimal fixed calendar for local development.
func demoHolidays() leave.HolidayCalendar {
	return leave.NewHolidayCalendar(
		leave.Holiday{Date: leave.NewDate(2025, time.January, 1), Name: "New Year's Day"},
		leave.Holiday{Date: leave.NewDate(2025, time.December, 25), Name: "Christmas Day"},
	)
}
