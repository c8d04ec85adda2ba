package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/averyholdt/socialforge/internal/history"
	"github.com/averyholdt/socialforge/internal/httpapi"
	"github.com/averyholdt/socialforge/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	addrFlag := flag.String("addr", "", "listen address (overrides PORT env var)")
	dbFlag := flag.String("db", "", "path to SQLite run-history file (overrides DB_PATH env var)")
	weightsFlag := flag.String("weights", "", "path to YAML scoring-weights override")
	flag.Parse()

	addr := *addrFlag
	if addr == "" {
		addr = ":8080"
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		}
	}

	weights := pipeline.DefaultWeights()
	if *weightsFlag != "" {
		w, err := pipeline.LoadWeights(*weightsFlag)
		if err != nil {
			log.Fatalf("load weights (%s): %v", *weightsFlag, err)
		}
		weights = w
		log.Printf("using scoring weights from %s", *weightsFlag)
	}

	pipe, err := pipeline.New(pipeline.Config{Weights: weights})
	if err != nil {
		log.Fatal(err)
	}

	dbPath := *dbFlag
	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}
	var store *history.Store
	if dbPath != "" {
		store, err = history.New(dbPath, nil)
		if err != nil {
			log.Fatalf("failed to initialize run history (%s): %v", dbPath, err)
		}
		defer store.Close()
		log.Printf("using run history at %s", dbPath)
	} else {
		log.Printf("run history disabled (no -db flag or DB_PATH)")
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewServer(pipe, store, log.Default()),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("socialforged listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
