package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Normalization
	BaseCurrency string
	RateEndpoint string

	// Storage backend: "sqlite" or "file"
	DataBackend    string
	SQLiteDBPath   string
	LedgerFilePath string

	// AMQP (reminder events); empty URL disables reminders
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Reminder delivery
	ReminderRecipient string

	// Google Sheets reminder mirror (worker, optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		BaseCurrency: getEnv("BASE_CURRENCY", "SAR"),
		RateEndpoint: getEnv("RATE_ENDPOINT", "https://open.er-api.com/v6/latest"),

		DataBackend:    getEnv("DATA_BACKEND", "file"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/masarif.db"),
		LedgerFilePath: getEnv("LEDGER_FILE_PATH", "./data/ledger.json"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "masarif"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "reminders"),

		ReminderRecipient: getEnv("REMINDER_RECIPIENT", ""),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Reminders"),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if len(c.BaseCurrency) != 3 || strings.ToUpper(c.BaseCurrency) != c.BaseCurrency {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be a 3-letter uppercase code", c.BaseCurrency))
	}

	if parsed, err := url.Parse(c.RateEndpoint); err != nil {
		errors = append(errors, fmt.Sprintf("invalid rate endpoint '%s': %v", c.RateEndpoint, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid rate endpoint scheme '%s': must be http or https", parsed.Scheme))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case "file":
		if c.LedgerFilePath == "" {
			errors = append(errors, "ledger file path cannot be empty when using file backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite file]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.ReminderRecipient == "" {
			errors = append(errors, "reminder recipient cannot be empty when AMQP URL is provided")
		}
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
