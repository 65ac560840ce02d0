package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuel-tracker/internal/config"
	"fuel-tracker/internal/database"
	"fuel-tracker/internal/services"
	"fuel-tracker/internal/services/fuelfeed"
	"fuel-tracker/internal/services/pricestore"

	"github.com/joho/godotenv"
)

var (
	interval = flag.Int("interval", 86400, "refresh interval in seconds (default one day)")
	once     = flag.Bool("once", false, "run a single refresh and exit")
	dbURL    = flag.String("db", "", "database connection string (overrides DATABASE_URL)")
	logFile  = flag.String("log", "", "log file path (default stdout)")
)

// Refresher drives the scheduled refresh cycle: fetch feed, run the pipeline,
// persist. It is the external trigger of the pipeline, so a failed cycle is
// logged loudly and retried on the next tick rather than crashing the daemon.
type Refresher struct {
	feed   *fuelfeed.Client
	svc    *services.PriceService
	logger *log.Logger

	runCount   int
	errorCount int
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	var logWriter *os.File
	var err error
	if *logFile != "" {
		logWriter, err = os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("Cannot open log file: %v", err)
		}
		defer logWriter.Close()
	} else {
		logWriter = os.Stdout
	}
	logger := log.New(logWriter, "[PriceRefresh] ", log.LstdFlags|log.Lshortfile)

	currentDBURL := *dbURL
	if currentDBURL == "" {
		currentDBURL = cfg.DatabaseURL
	}

	db, err := database.Initialize(currentDBURL)
	if err != nil {
		logger.Fatalf("Database initialization failed: %v", err)
	}
	logger.Printf("Database connection established")

	refresher := &Refresher{
		feed:   fuelfeed.NewClient(cfg.FuelAPIURL, cfg.FuelAPIKey),
		svc:    services.NewPriceService(pricestore.NewStore(db), logger),
		logger: logger,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Printf("Price refresh daemon started (interval=%ds, once=%v)", *interval, *once)

	if *once {
		refresher.runOnce(ctx)
		return
	}
	refresher.runLoop(ctx)
}

func (r *Refresher) runOnce(ctx context.Context) {
	if err := r.refresh(ctx); err != nil {
		r.logger.Printf("Refresh error: %v", err)
		r.errorCount++
	}
	r.printStatus()
}

func (r *Refresher) runLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(*interval) * time.Second)
	defer ticker.Stop()

	// First run immediately
	r.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			r.runOnce(ctx)
		case <-ctx.Done():
			r.logger.Printf("Refresh daemon stopped")
			return
		}
	}
}

// refresh executes one full cycle against the live feed.
func (r *Refresher) refresh(ctx context.Context) error {
	cycleCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	observations, err := r.feed.FetchPrices(cycleCtx)
	if err != nil {
		return err
	}
	r.logger.Printf("Fetched %d price observations", len(observations))

	doc, err := r.svc.Refresh(cycleCtx, observations)
	if err != nil {
		return err
	}

	r.runCount++
	r.logger.Printf("Refresh complete: %d history days, last updated %s",
		len(doc.History), doc.LastUpdated.Format("2006-01-02 15:04:05"))
	return nil
}

func (r *Refresher) printStatus() {
	r.logger.Printf("Status: runs=%d errors=%d", r.runCount, r.errorCount)
}
