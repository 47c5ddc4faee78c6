package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/storage"
	accountStore "gymdesk/internal/adapters/storage/account"
	messageStore "gymdesk/internal/adapters/storage/message"
	planStore "gymdesk/internal/adapters/storage/plan"
	subscriptionStore "gymdesk/internal/adapters/storage/subscription"
	"gymdesk/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("GYMDESK_DB", "gymdesk.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Wrap DB with query timing so slow statements surface in the logs
	timedDB := storage.NewTimedDB(db)

	plStore := planStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:      accountStore.NewSQLiteStore(timedDB),
		PlanStore:         plStore,
		SubscriptionStore: subscriptionStore.NewSQLiteStore(timedDB),
		MessageStore:      messageStore.NewSQLiteStore(timedDB),
	}

	// Seed the plan catalogue on first boot (idempotent)
	seedDeps := orchestrators.SeedPlansDeps{PlanStore: plStore}
	if err := orchestrators.ExecuteSeedPlans(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed plans: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("GYMDESK_RESEND_KEY")
	emailFrom := envOrDefault("GYMDESK_RESEND_FROM", "GymDesk <noreply@gymdesk.example>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if os.Getenv("GYMDESK_ENV") == "production" {
			log.Println("WARNING: GYMDESK_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set GYMDESK_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware
	mux := web.NewMux("static", stores)

	// Start server
	addr := envOrDefault("GYMDESK_ADDR", ":8080")
	log.Printf("GymDesk %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("GYMDESK_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
