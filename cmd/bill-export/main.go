package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"bill-tracker/internal/bill"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// bill-export dumps a user's bill history straight from the database file,
// without going through the HTTP server. Useful for backups and for feeding
// the history into a spreadsheet.
func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	godotenv.Load()

	fs := ff.NewFlagSet("bill-export")
	var (
		dbPath      = fs.StringLong("db", "bill-tracker.db", "Database file path")
		userID      = fs.StringLong("user", "default", "User whose bills to export")
		month       = fs.StringLong("month", "", "Restrict to one month (YYYY-MM)")
		format      = fs.StringLong("format", "csv", "Export format: 'csv' or 'xlsx'")
		output      = fs.StringLong("out", "", "Output file (default stdout)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("BILL_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	db, err := bill.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bills, err := db.ListBills(*userID)
	if err != nil {
		slog.Error("Failed to list bills", "error", err)
		os.Exit(1)
	}
	bills = bill.FilterByMonth(bills, *month)

	var payload []byte
	switch *format {
	case "csv":
		payload, err = bill.ExportCSV(bills)
	case "xlsx":
		payload, err = bill.ExportXLSX(bills)
	default:
		slog.Error("Invalid export format", "format", *format, "valid", "csv or xlsx")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to render export", "format", *format, "error", err)
		os.Exit(1)
	}

	if *output == "" {
		if _, err := os.Stdout.Write(payload); err != nil {
			slog.Error("Failed to write export", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := os.WriteFile(*output, payload, 0644); err != nil {
		slog.Error("Failed to write export", "file", *output, "error", err)
		os.Exit(1)
	}
	slog.Info("Export written", "file", *output, "bills", len(bills))
}
