// debt-admin maintains clients and debts from the command line.
//
// Usage (DB_* env as for the server):
//
//	go run ./cmd/debt-admin create-client -id 10000001 -name "ACME SAC"
//	go run ./cmd/debt-admin add-debt -client 10000001 -desc FACTURA -emitted 01032024 -expires 31032024 \
//	    -total 150.00 -period 03 -fee 01 -product OJw -currency S
//	go run ./cmd/debt-admin update-debt -id <operation identifier> -total 120.00
//	go run ./cmd/debt-admin delete-debt -id <operation identifier>
//	go run ./cmd/debt-admin delete-client -id 10000001
//	go run ./cmd/debt-admin delete-payment -id 42
//
// add-debt also records a pending payment so the debt shows up in debt-status.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: debt-admin <create-client|delete-client|add-debt|update-debt|delete-debt|delete-payment> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd, args := os.Args[1], os.Args[2:]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	settings := config.LoadSettings()

	connect := func() *gorm.DB {
		db, err := config.ConnectDatabaseWithRetry(ctx, settings)
		if err != nil {
			fail("failed to connect database", err)
		}
		return db
	}

	switch cmd {
	case "create-client":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "Document identifier (max 14)")
		name := fs.String("name", "", "Client name")
		company := fs.String("company", "", "Company (optional)")
		productType := fs.String("product-type", "", "Product type (optional)")
		_ = fs.Parse(args)

		client, err := models.NewClientStore(connect()).CreateClient(ctx, &models.NewClient{
			DocumentIdentifier: *id,
			Name:               *name,
			Company:            utils.NilIfEmpty(*company),
			ProductType:        utils.NilIfEmpty(*productType),
		})
		if err != nil {
			fail("create client", err)
		}
		printJSON(client)

	case "delete-client":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "Document identifier")
		_ = fs.Parse(args)

		deleted, err := models.NewClientStore(connect()).DeleteClient(ctx, *id)
		if err != nil {
			fail("delete client", err)
		}
		fmt.Printf("deleted=%t\n", deleted)

	case "add-debt":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		client := fs.String("client", "", "Client document identifier")
		desc := fs.String("desc", "", "Description")
		emitted := fs.String("emitted", "", "Emition date DDMMYYYY")
		expires := fs.String("expires", "", "Expiration date DDMMYYYY")
		total := fs.String("total", "0", "Total debt")
		defaultDebt := fs.String("default", "0", "Default (late) amount")
		adminExpenses := fs.String("admin-expenses", "0", "Administration expenses")
		minimum := fs.String("minimum", "0", "Minimum payment")
		period := fs.String("period", "", "Period (2 chars)")
		fee := fs.String("fee", "", "Fee number (2 chars)")
		product := fs.String("product", "", "Product code (3 chars)")
		currency := fs.String("currency", "", "Currency")
		createdBy := fs.String("created-by", "debt-admin", "Audit user")
		_ = fs.Parse(args)

		db := connect()
		debt, err := models.NewDebtStore(db, settings.DebtIdMaxAttempts).AddDebt(ctx, &models.NewDebt{
			ClientId:               *client,
			Description:            *desc,
			EmitionDate:            mustDate("emitted", *emitted),
			ExpirationDate:         mustDate("expires", *expires),
			TotalDebt:              mustDecimal("total", *total),
			DefaultDebt:            mustDecimal("default", *defaultDebt),
			AdministrationExpenses: mustDecimal("admin-expenses", *adminExpenses),
			MinimumPayment:         mustDecimal("minimum", *minimum),
			Period:                 *period,
			Fee:                    *fee,
			ProductCode:            *product,
			Currency:               *currency,
			CreatedBy:              utils.NilIfEmpty(*createdBy),
		})
		if err != nil {
			fail("add debt", err)
		}
		emition := debt.EmitionDate
		_, err = models.NewPaymentStore(db).CreatePayment(ctx, &models.Payment{
			DebtId:              &debt.OperationIdentifier,
			EmitionDate:         &emition,
			BankCode:            "",
			OperationBankNumber: debt.OperationIdentifier[:12],
			PaymentAmount:       decimal.Zero,
			Status:              models.PaymentStatusPending,
		})
		if err != nil {
			fail("create pending payment", err)
		}
		printJSON(debt)

	case "update-debt":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "Operation identifier")
		desc := fs.String("desc", "", "Description")
		total := fs.String("total", "", "Total debt")
		minimum := fs.String("minimum", "", "Minimum payment")
		expires := fs.String("expires", "", "Expiration date DDMMYYYY")
		updatedBy := fs.String("updated-by", "debt-admin", "Audit user")
		_ = fs.Parse(args)

		patch := &models.DebtPatch{
			Description: utils.NilIfEmpty(*desc),
			UpdatedBy:   utils.NilIfEmpty(*updatedBy),
		}
		if *total != "" {
			d := mustDecimal("total", *total)
			patch.TotalDebt = &d
		}
		if *minimum != "" {
			d := mustDecimal("minimum", *minimum)
			patch.MinimumPayment = &d
		}
		if *expires != "" {
			t := mustDate("expires", *expires)
			patch.ExpirationDate = &t
		}

		debt, err := models.NewDebtStore(connect(), settings.DebtIdMaxAttempts).UpdateDebt(ctx, *id, patch)
		if err != nil {
			fail("update debt", err)
		}
		if debt == nil {
			fmt.Fprintf(os.Stderr, "debt %s not found\n", *id)
			os.Exit(1)
		}
		printJSON(debt)

	case "delete-debt":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "Operation identifier")
		_ = fs.Parse(args)

		deleted, err := models.NewDebtStore(connect(), settings.DebtIdMaxAttempts).DeleteDebt(ctx, *id)
		if err != nil {
			fail("delete debt", err)
		}
		fmt.Printf("deleted=%t\n", deleted)

	case "delete-payment":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "Payment id")
		_ = fs.Parse(args)

		deleted, err := models.NewPaymentStore(connect()).DeletePayment(ctx, *id)
		if err != nil {
			fail("delete payment", err)
		}
		fmt.Printf("deleted=%t\n", deleted)

	default:
		usage()
	}
}

func mustDate(flagName, value string) time.Time {
	t, err := utils.ParseContractDate(value)
	if err != nil {
		fail("-"+flagName+" must be DDMMYYYY", err)
	}
	return t
}

func mustDecimal(flagName, value string) decimal.Decimal {
	d, err := utils.ParseDecimal(value)
	if err != nil {
		fail("-"+flagName+" must be a decimal", err)
	}
	return d
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
