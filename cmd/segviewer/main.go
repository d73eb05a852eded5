package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/woundlab/segreport/internal/config"
	"github.com/woundlab/segreport/internal/fsutil"
	"github.com/woundlab/segreport/internal/store"
	"github.com/woundlab/segreport/internal/version"
	"github.com/woundlab/segreport/internal/viewer"
)

var (
	configPath  = flag.String("config", "", "Path to a report config JSON file")
	listen      = flag.String("listen", "", "HTTP listen address")
	dbFile      = flag.String("db", "", "Path to the SQLite store")
	migrations  = flag.String("migrations", "migrations", "Path to the schema migrations directory")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

// Main
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	osfs := fsutil.OSFileSystem{}
	cfg := config.EmptyReportConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadReportConfig(osfs, *configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
	} else if osfs.Exists(config.DefaultConfigPath) {
		var err error
		cfg, err = config.LoadReportConfig(osfs, config.DefaultConfigPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", config.DefaultConfigPath, err)
		}
	}

	address := *listen
	if address == "" {
		address = cfg.GetListenAddr()
	}
	dbPath := *dbFile
	if dbPath == "" {
		dbPath = cfg.GetDatabasePath()
	}

	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open store %s: %v", dbPath, err)
	}
	defer db.Close()

	// Bring the schema current so a fresh database serves the empty
	// dashboard instead of failing on missing tables.
	if err := db.MigrateUp(*migrations); err != nil {
		log.Fatalf("Failed to migrate store: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		srv := viewer.NewServer(viewer.Config{Address: address, DB: db})
		if err := srv.Start(ctx); err != nil {
			log.Printf("viewer error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
