package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"bill-tracker/internal/bill"
	"bill-tracker/internal/extraction"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// A local .env is convenient in development; absence is not an error.
	godotenv.Load()

	fs := ff.NewFlagSet("bill-tracker")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "bill-tracker.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./bills", "Local image storage directory")
		s3Endpoint    = fs.StringLong("s3-endpoint", "", "S3-compatible endpoint (enables S3 image storage)")
		s3AccessKey   = fs.StringLong("s3-access-key", "", "S3 access key")
		s3SecretKey   = fs.StringLong("s3-secret-key", "", "S3 secret key")
		s3Bucket      = fs.StringLong("s3-bucket", "bill-images", "S3 bucket for bill images")
		s3Region      = fs.StringLong("s3-region", "", "S3 region")
		s3Insecure    = fs.BoolLong("s3-insecure", "Disable TLS for S3")
		ocrEngine     = fs.StringLong("ocr", "tesseract", "OCR engine: 'tesseract' or 'gemini'")
		tesseractPath = fs.StringLong("tesseract-path", "tesseract", "Tesseract binary")
		ocrLangs      = fs.StringLong("ocr-langs", "eng+hrv", "Tesseract language packs")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		stageTimeout  = fs.DurationLong("stage-timeout", extraction.DefaultStageTimeout, "Per-stage recognition timeout")
		mode          = fs.StringLong("mode", "live", "Data mode: 'live' or 'demo'")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
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

	if *mode != string(bill.ModeLive) && *mode != string(bill.ModeDemo) {
		slog.Error("Invalid mode", "mode", *mode, "valid", "live or demo")
		os.Exit(1)
	}

	slog.Info("Initializing database...")
	db, err := bill.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var textExtractor extraction.TextExtractor
	switch *ocrEngine {
	case "tesseract":
		slog.Info("Initializing Tesseract OCR...", "binary", *tesseractPath, "languages", *ocrLangs)
		textExtractor = extraction.NewTesseract(*tesseractPath, *ocrLangs)
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini OCR...", "model", *geminiModel)
		gemini, err := extraction.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		textExtractor = gemini
	default:
		slog.Error("Invalid OCR engine", "engine", *ocrEngine, "valid", "tesseract or gemini")
		os.Exit(1)
	}

	pipeline := extraction.NewPipeline(textExtractor, extraction.NewZXingDetector()).
		WithStageTimeout(*stageTimeout)

	var store bill.Storage
	if *s3Endpoint != "" {
		slog.Info("Initializing S3 image storage...", "endpoint", *s3Endpoint, "bucket", *s3Bucket)
		store, err = bill.NewS3Storage(bill.S3Config{
			Endpoint:  *s3Endpoint,
			AccessKey: *s3AccessKey,
			SecretKey: *s3SecretKey,
			Bucket:    *s3Bucket,
			Region:    *s3Region,
			UseSSL:    !*s3Insecure,
		})
	} else {
		slog.Info("Initializing local image storage...", "path", *storagePath)
		store, err = bill.NewLocalStorage(*storagePath)
	}
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	service := bill.NewService(db, pipeline, store, bill.Mode(*mode))

	server := bill.NewServer(service, bill.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	})

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "mode", *mode)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
