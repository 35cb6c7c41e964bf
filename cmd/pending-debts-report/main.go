// pending-debts-report exports a client's debts with pending payments to an
// xlsx workbook, in the layout the debt-status endpoint reports them.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	  go run ./cmd/pending-debts-report -client 10000001 -product OJw -out pending.xlsx
//
// Without -client every debt is exported.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/models/reports"
)

func main() {
	clientID := flag.String("client", "", "Client document identifier. If empty, exports every debt.")
	productCode := flag.String("product", "", "Product code (required with -client).")
	out := flag.String("out", "pending-debts.xlsx", "Output workbook path.")
	timeout := flag.Duration("timeout", 2*time.Minute, "Give up connecting to the database after this long.")
	flag.Parse()

	if strings.TrimSpace(*clientID) != "" && strings.TrimSpace(*productCode) == "" {
		fmt.Fprintln(os.Stderr, "-product is required with -client")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := config.ConnectDatabaseWithRetry(ctx, config.LoadSettings())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect database: %v\n", err)
		os.Exit(1)
	}
	store := models.NewDebtStore(db, 0)

	var debts []*models.Debt
	if id := strings.TrimSpace(*clientID); id != "" {
		debts, err = store.GetDebtsByClientIdentifier(ctx, id, strings.TrimSpace(*productCode))
	} else {
		debts, err = store.GetAllDebts(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load debts: %v\n", err)
		os.Exit(1)
	}
	if len(debts) == 0 {
		fmt.Fprintln(os.Stderr, "no debts found")
		return
	}

	if err := reports.SavePendingDebts(debts, *out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d debts to %s\n", len(debts), *out)
}
