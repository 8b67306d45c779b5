package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/orderflow/engine/observability"
	"github.com/orderflow/engine/store"
	"github.com/orderflow/engine/workflow"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to engine config JSON file (optional)")
		storePath  = flag.String("store", "", "Directory for the file store backend (overrides config)")
		dispatch   = flag.String("dispatch", "", "Event dispatch mode: sync or queued (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	var cfg *workflow.Config
	if *configFile != "" {
		loaded, err := workflow.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	} else {
		defaults := workflow.DefaultConfig()
		cfg = &defaults
	}

	if *storePath != "" {
		cfg.Store.Backend = store.BackendFile
		cfg.Store.Path = *storePath
	}
	if *dispatch != "" {
		cfg.Bus.Dispatch = *dispatch
	}

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	eng, err := workflow.New(cfg, workflow.WithObserver(observability.NewSlogObserver(logger)))
	if err != nil {
		log.Fatalf("Failed to create workflow engine: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := func(result string, err error) {
		if err != nil {
			log.Fatalf("Workflow step failed: %v", err)
		}
		fmt.Println(result)
	}

	// Full lifecycle of one order.
	run(eng.CreateOrder(ctx, "order_1", "CUST01", []string{"laptop", "mouse"}))
	run(eng.CheckInventory(ctx, "order_1"))
	run(eng.ProcessPayment(ctx, "order_1"))
	run(eng.ShipOrder(ctx, "order_1"))
	run(eng.CompleteOrder(ctx, "order_1"))

	// Terminal statuses absorb further transitions.
	if _, err := eng.CancelOrder(ctx, "order_1"); err != nil {
		fmt.Printf("Cancel rejected: %v\n", err)
	}

	// Undo rewinds the persisted snapshot, not the machine.
	run(eng.CreateOrder(ctx, "order_2", "CUST02", []string{"keyboard"}))
	run(eng.CheckInventory(ctx, "order_2"))
	run(eng.Undo(ctx))

	record, err := eng.StoredOrder(ctx, "order_2")
	if err != nil {
		log.Fatalf("Failed to load stored order: %v", err)
	}
	o, err := eng.Order("order_2")
	if err != nil {
		log.Fatalf("Failed to read order: %v", err)
	}
	fmt.Printf("After undo: store sees %v, machine sees %s\n", record["status"], o.Status)

	run(eng.Redo(ctx))

	status, err := eng.OrderStatus("order_2")
	if err != nil {
		log.Fatalf("Failed to format order status: %v", err)
	}
	fmt.Printf("\n%s\n", status)

	fmt.Println("\nNotifications:")
	for _, n := range eng.Notifications(10) {
		fmt.Printf("  - %s\n", n)
	}

	fmt.Println("\nEvent history:")
	for i, ev := range eng.RecentEvents(20) {
		fmt.Printf("  [%d] %s from %s\n", i+1, ev.Type, ev.Source)
	}

	summary := eng.Summary()
	fmt.Printf("\nOrders: %d (current: %s)\n", summary.Orders, summary.CurrentOrder)
	fmt.Printf("Inventory: %v\n", summary.Inventory)

	metrics := eng.EventMetrics()
	fmt.Printf("Events: %d published, %d handled, %d handler failures\n",
		metrics.Published, metrics.Handled, metrics.HandlerFailures)

	if err := eng.Shutdown(5 * time.Second); err != nil {
		log.Fatalf("Shutdown failed: %v", err)
	}
}
