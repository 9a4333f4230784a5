package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rosterhq/rostertrack/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

// LoadEnv loads the given .env files from the working directory, falling
// back to the module root (the directory holding go.mod) when none are
// found next to the caller. Returns how many files were loaded.
func LoadEnv(envFiles []string) (int, error) {
	existing := existingFiles(envFiles, "")
	if len(existing) == 0 {
		if root, ok := findModuleRoot(); ok {
			existing = existingFiles(envFiles, root)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func existingFiles(envFiles []string, dir string) []string {
	out := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		path := file
		if dir != "" {
			path = filepath.Join(dir, file)
		}
		if fileExists(path) {
			out = append(out, path)
		}
	}
	return out
}

func findModuleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

type StoreOptions struct {
	Path        string        `env:"ROSTER_DB_PATH" envDefault:"roster.db"`
	BusyTimeout time.Duration `env:"ROSTER_DB_BUSY_TIMEOUT" envDefault:"5s"`
}

func (s *StoreOptions) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("store path must not be empty")
	}
	if s.BusyTimeout < 0 {
		return fmt.Errorf("store busy timeout must be non-negative, got %s", s.BusyTimeout)
	}
	return nil
}

type DecodeOptions struct {
	// Background moves cell-grid extraction of large workbooks onto a
	// worker goroutine; ingestion logic itself stays synchronous.
	Background     bool  `env:"DECODE_BACKGROUND" envDefault:"true"`
	AsyncThreshold int64 `env:"DECODE_ASYNC_THRESHOLD_BYTES" envDefault:"1048576"`
}

func (d *DecodeOptions) Validate() error {
	if d.AsyncThreshold < 0 {
		return fmt.Errorf("decode async threshold must be non-negative, got %d", d.AsyncThreshold)
	}
	return nil
}

type IngestOptions struct {
	// PrimarySheet and SecondarySheet pin sheet names, bypassing
	// autodetection when the workbook layout is known.
	PrimarySheet   string `env:"INGEST_PRIMARY_SHEET"`
	SecondarySheet string `env:"INGEST_SECONDARY_SHEET"`
	HeaderScanRows int    `env:"INGEST_HEADER_SCAN_ROWS" envDefault:"10"`
}

func (i *IngestOptions) Validate() error {
	if i.HeaderScanRows < 1 {
		return fmt.Errorf("header scan rows must be at least 1, got %d", i.HeaderScanRows)
	}
	return nil
}

type UnitOptions struct {
	// AliasRulesPath points at an optional YAML file extending the
	// built-in unit alias table.
	AliasRulesPath string `env:"UNIT_ALIAS_RULES"`
}

type Configuration struct {
	Store  StoreOptions
	Decode DecodeOptions
	Ingest IngestOptions
	Units  UnitOptions

	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/roster.log"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"25"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store configuration error: %w", err)
	}
	if err := c.Decode.Validate(); err != nil {
		return fmt.Errorf("decode configuration error: %w", err)
	}
	if err := c.Ingest.Validate(); err != nil {
		return fmt.Errorf("ingest configuration error: %w", err)
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
