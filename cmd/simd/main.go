/*
main.go - Simulation daemon entry point

PURPOSE:
  Builds a small closed-economy town, runs the simulated clock in real
  time and serves the read-only HTTP monitor. Handles configuration,
  dependency wiring, and graceful shutdown.

THE TOWN:
  Two warehouses seeded with starter stock, a lumber camp, a farm, a
  quarry, an iron mine, a bakery (Wheat -> Bread) and a smithy
  (IronOre + Wood -> Tools), all kept fed and drained by closed loops.
  Three carriers haul everything.

COMMAND-LINE FLAGS:
  -port    HTTP monitor port (default: 8080)
  -db      SQLite journal path (default: journal.db, ":memory:" works)
  -tuning  optional YAML tuning file
  -hz      tick rate (default: 10)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the clock (tick loop drains)
  2. Shut down the HTTP server (30s timeout)
  3. Close the journal
  4. Exit

EXAMPLES:
  # Run with defaults
  ./simd

  # In-memory journal, custom tuning
  ./simd -db=":memory:" -tuning=./tuning.yaml

SEE ALSO:
  - api/server.go: monitor routes
  - logistics/dispatcher.go: the scheduling loop driven by the clock
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/logistics-engine/api"
	"github.com/warp/logistics-engine/clock"
	"github.com/warp/logistics-engine/economy"
	"github.com/warp/logistics-engine/journal/sqlite"
	"github.com/warp/logistics-engine/logistics"
	"github.com/warp/logistics-engine/reserve"
	"github.com/warp/logistics-engine/tasks"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP monitor port")
	dbPath := flag.String("db", "journal.db", "SQLite journal path")
	tuningPath := flag.String("tuning", "", "YAML tuning file (optional)")
	hz := flag.Int("hz", 10, "simulation tick rate")
	flag.Parse()

	tuning := logistics.DefaultTuning()
	if *tuningPath != "" {
		t, err := logistics.LoadTuning(*tuningPath)
		if err != nil {
			log.Fatalf("Failed to load tuning: %v", err)
		}
		tuning = t
	}

	// Initialize journal
	jnl, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize journal: %v", err)
	}
	defer jnl.Close()

	// Core engine wiring
	clk := clock.New(*hz)
	registry := economy.NewRegistry(tuning.GridCellSize)
	reservations := reserve.NewLedger()
	manager := tasks.NewManager()
	dispatcher := logistics.NewDispatcher(registry, reservations, manager, clk, jnl, tuning)

	buildTown(clk, registry, manager, dispatcher)

	// Tick order: production advances, then dispatch, then execution.
	clk.Subscribe(dispatcher.OnTick)
	clk.Subscribe(manager.OnTick)

	// HTTP monitor
	handler := api.NewHandler(dispatcher, manager, jnl)
	router := api.NewRouter(handler)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	clk.Run()
	go func() {
		log.Printf("🚀 Monitor on http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	clk.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Stopped")
}

// buildTown assembles the demo economy: warehouses, producers, carriers
// and the closed loops that keep goods flowing.
func buildTown(clk *clock.Clock, registry *economy.Registry, manager *tasks.Manager, dispatcher *logistics.Dispatcher) {
	// Warehouses with starter stock.
	north := economy.NewWarehouse("warehouse-north", economy.Point{X: 0, Y: 10}, 200)
	north.Inventory().Deposit(economy.Wood, 40)
	north.Inventory().Deposit(economy.Wheat, 30)
	south := economy.NewWarehouse("warehouse-south", economy.Point{X: 0, Y: -10}, 200)
	south.Inventory().Deposit(economy.IronOre, 25)
	south.Inventory().Deposit(economy.Stone, 20)
	mustRegister(registry, north.Facility())
	mustRegister(registry, south.Facility())

	// Producers.
	producers := []*economy.ProductionFacility{
		economy.NewProductionFacility("lumber-camp", economy.Point{X: 18, Y: 6}, economy.Recipe{
			Outputs: []economy.Stack{{Kind: economy.Wood, Amount: 2}},
			Cycle:   4 * time.Second,
		}),
		economy.NewProductionFacility("farm", economy.Point{X: -16, Y: 8}, economy.Recipe{
			Outputs: []economy.Stack{{Kind: economy.Wheat, Amount: 3}},
			Cycle:   6 * time.Second,
		}),
		economy.NewProductionFacility("quarry", economy.Point{X: 14, Y: -12}, economy.Recipe{
			Outputs: []economy.Stack{{Kind: economy.Stone, Amount: 2}},
			Cycle:   5 * time.Second,
		}),
		economy.NewProductionFacility("iron-mine", economy.Point{X: -12, Y: -14}, economy.Recipe{
			Outputs: []economy.Stack{{Kind: economy.IronOre, Amount: 1}},
			Cycle:   5 * time.Second,
		}),
		economy.NewProductionFacility("bakery", economy.Point{X: 4, Y: 2}, economy.Recipe{
			Inputs:  []economy.Stack{{Kind: economy.Wheat, Amount: 2}},
			Outputs: []economy.Stack{{Kind: economy.Bread, Amount: 1}},
			Cycle:   8 * time.Second,
		}),
		economy.NewProductionFacility("smithy", economy.Point{X: -4, Y: -2}, economy.Recipe{
			Inputs:  []economy.Stack{{Kind: economy.IronOre, Amount: 1}, {Kind: economy.Wood, Amount: 1}},
			Outputs: []economy.Stack{{Kind: economy.Tools, Amount: 1}},
			Cycle:   10 * time.Second,
		}),
	}
	for _, p := range producers {
		p := p
		mustRegister(registry, p.Facility())
		clk.Subscribe(func() { p.Tick(clk.Delta()) })
		loop := logistics.NewClosedLoop(dispatcher, clk, p).WithLevels(6, 5)
		clk.Subscribe(loop.OnTick)
	}

	// Carriers, one task-manager worker each.
	for i := 0; i < 3; i++ {
		c := economy.NewCarrier(fmt.Sprintf("carrier-%d", i+1), economy.Point{X: float64(i * 2)}, 2.0)
		clk.Subscribe(func() { c.Tick(clk.Delta()) })
		manager.AddWorker(&tasks.Context{
			Registry: registry,
			Carrier:  c,
			Mover:    c,
			Clock:    clk,
		})
	}
}

func mustRegister(r *economy.Registry, f *economy.Facility) {
	if err := r.Register(f); err != nil {
		log.Fatalf("Failed to register %s: %v", f.ID, err)
	}
}
