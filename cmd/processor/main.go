package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sheikh-saqib/payments-replay-engine/internal/engine"
	"github.com/sheikh-saqib/payments-replay-engine/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/payments-replay-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-replay-engine/internal/processor"
	"github.com/sheikh-saqib/payments-replay-engine/internal/storage/memory"
	"github.com/sheikh-saqib/payments-replay-engine/internal/storage/postgres"
)

func main() {
	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Expected input file as the first argument, but got none.")
	}

	input, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer input.Close()

	ctx := context.Background()

	store, err := newStore(ctx)
	if err != nil {
		log.Fatal(err)
	}

	publisher, closePublisher := newPublisher()
	if closePublisher != nil {
		defer closePublisher()
	}

	processingEngine := engine.NewProcessingEngine(store, publisher)
	run := processor.New(processingEngine, store)
	if err := run.Run(ctx, input, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// newStore selects the backing store: in-memory by default, postgres when
// PAYMENTS_STORE=postgres and DATABASE_URL is set.
func newStore(ctx context.Context) (interfaces.TransactionStore, error) {
	if os.Getenv("PAYMENTS_STORE") != "postgres" {
		return memory.NewMemoryTransactionStore(), nil
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := postgres.NewPostgresTransactionStore(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// newPublisher wires kafka only when brokers are configured; without them
// the engine runs event-free.
func newPublisher() (interfaces.EventPublisher, func() error) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil, nil
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "transaction_applied"
	}

	publisher := kafka.NewPublisher(strings.Split(brokers, ","), topic)
	return publisher, publisher.Close
}
