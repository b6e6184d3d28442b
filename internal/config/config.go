package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/notebake/internal/bake"
)

type Config struct {
	Port string

	// Vault
	VaultRoot string

	// Auth
	APIKey string

	// Default bake settings (overridable per request)
	BakeHidden       bool
	BakeLinks        bool
	BakeEmbeds       bool
	BakeInList       bool
	ConvertFileLinks bool

	// Asset extraction
	ExtractAssets        bool
	PDFFallbackPdftotext bool

	// Export pipeline
	WorkerCount  int
	MaxQueueSize int
	JobTTL       time.Duration
	ExportDir    string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		VaultRoot: os.Getenv("VAULT_ROOT"),

		APIKey: os.Getenv("NOTEBAKE_API_KEY"),

		BakeHidden:       envBool("BAKE_HIDDEN", false),
		BakeLinks:        envBool("BAKE_LINKS", true),
		BakeEmbeds:       envBool("BAKE_EMBEDS", true),
		BakeInList:       envBool("BAKE_IN_LIST", true),
		ConvertFileLinks: envBool("CONVERT_FILE_LINKS", false),

		ExtractAssets:        envBool("EXTRACT_ASSETS", false),
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 20),
		JobTTL:       envDuration("JOB_TTL", 1*time.Hour),
		ExportDir:    envOr("EXPORT_DIR", "baked"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 20
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.VaultRoot == "" {
		return fmt.Errorf("VAULT_ROOT is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("NOTEBAKE_API_KEY is required")
	}
	return nil
}

// Settings returns the configured default bake settings.
func (c Config) Settings() bake.Settings {
	return bake.Settings{
		BakeHidden:       c.BakeHidden,
		BakeLinks:        c.BakeLinks,
		BakeEmbeds:       c.BakeEmbeds,
		BakeInList:       c.BakeInList,
		ConvertFileLinks: c.ConvertFileLinks,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
