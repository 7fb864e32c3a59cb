package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend  string
	SQLiteDBPath string

	// Backups. An empty schedule disables the scheduler.
	BackupDir      string
	BackupSchedule string
	BackupKeep     int

	// Cosmetic latency for the assistant and the receipt scanner
	AssistantDelay time.Duration
	ScanDelay      time.Duration

	// Dashboard cache
	CacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finwise.db"),

		BackupDir:      getEnv("BACKUP_DIR", "./data/backups"),
		BackupSchedule: getEnv("BACKUP_SCHEDULE", "@daily"),
		BackupKeep:     getEnvInt("BACKUP_KEEP", 14),

		AssistantDelay: getEnvDuration("ASSISTANT_DELAY", 1500*time.Millisecond),
		ScanDelay:      getEnvDuration("SCAN_DELAY", 2*time.Second),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory", "sqlite":
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite]", c.DataBackend))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.BackupSchedule != "" {
		if _, err := cron.ParseStandard(c.BackupSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("invalid backup schedule '%s': %v", c.BackupSchedule, err))
		}
		if c.BackupDir == "" {
			errors = append(errors, "backup directory cannot be empty when a backup schedule is set")
		}
		if c.BackupKeep < 1 {
			errors = append(errors, fmt.Sprintf("invalid backup retention %d: must be at least 1", c.BackupKeep))
		}
	}

	if c.AssistantDelay < 0 || c.AssistantDelay > 30*time.Second {
		errors = append(errors, fmt.Sprintf("invalid assistant delay %v: must be between 0 and 30s", c.AssistantDelay))
	}
	if c.ScanDelay < 0 || c.ScanDelay > 30*time.Second {
		errors = append(errors, fmt.Sprintf("invalid scan delay %v: must be between 0 and 30s", c.ScanDelay))
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
