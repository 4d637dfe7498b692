package main // Entry point package

import (
	"context" // startup snapshot load
	"errors"  // sentinel comparisons
	"log"     // Logging library
	"time"    // startup timeouts

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/movietix/ticket-ledger/internal/config"   // Internal config loader
	"github.com/movietix/ticket-ledger/internal/database" // MySQL connection pool
	"github.com/movietix/ticket-ledger/internal/handler"  // HTTP handlers
	"github.com/movietix/ticket-ledger/internal/ledger"   // in-memory ticket ledger
	"github.com/movietix/ticket-ledger/internal/queue"    // settlement event consumer
	"github.com/movietix/ticket-ledger/internal/repository"
	"github.com/movietix/ticket-ledger/internal/router" // Internal router setup
	"github.com/movietix/ticket-ledger/internal/service/queuepublisher"
	"github.com/movietix/ticket-ledger/internal/token" // token-bank settlement backends
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	cfg := config.Load() // Load environment config

	// The token bank backs settlement (ledger side) and funding/inspection
	// (HTTP side). With a database configured it is MySQL rows under
	// row locks; without one it is a process-local map for development.
	var (
		port  ledger.TokenTransferPort
		bank  handler.TokenBank
		users *repository.UserRepo
		toks  *repository.TokenRepo
		snaps *repository.LedgerRepo
	)
	if cfg.UseDatabase() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		b := token.NewBank(db)
		port, bank = b, b
		users = repository.NewUserRepo(db)
		toks = repository.NewTokenRepo(db)
		snaps = repository.NewLedgerRepo(db)
	} else {
		log.Println("DB_HOST unset: using in-memory bank, auth and snapshots disabled")
		m := token.NewMemoryBank()
		port, bank = m, m
	}

	led, err := ledger.New(ledger.Identity(cfg.OwnerAccountID), port, queuepublisher.New())
	if err != nil {
		log.Fatalf("ledger: %v", err)
	}

	// Rehydrate from the last snapshot if one was persisted. A missing
	// snapshot just means a fresh ledger.
	if snaps != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		snap, err := snaps.Load(ctx)
		cancel()
		switch {
		case errors.Is(err, repository.ErrNoSnapshot):
			log.Println("no ledger snapshot found, starting empty")
		case err != nil:
			log.Fatalf("load snapshot: %v", err)
		default:
			if err := led.Restore(snap); err != nil {
				log.Fatalf("restore snapshot: %v", err)
			}
			log.Printf("restored %d listings from snapshot", led.ListingCount())
		}
	}

	// The consumer drains settlement events into the audit log. It reconnects
	// on its own, so a broker outage only delays the audit trail.
	go func() {
		if err := queue.StartSettlementConsumer(); err != nil {
			log.Printf("settlement consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient() // nil disables caching and rate limiting

	e := echo.New()          // Create Echo instance
	router.RegisterRoutes(e) // Register application routes

	lh := handler.NewLedgerHandler(led, snaps, bank)
	router.RegisterPublic(e, lh, rdb)
	router.RegisterLedger(e, lh, cfg.JWTSecret, rdb)
	if users != nil {
		ah := handler.NewAuthHandler(cfg, users, toks, bank)
		router.RegisterAuth(e, ah, cfg.JWTSecret)
	}

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
