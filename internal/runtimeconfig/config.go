package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-translated/internal/locales"
)

var (
	ErrLocalesInvalid             = errors.New("translated config: locales are invalid")
	ErrStorageProviderUnknown     = errors.New("translated config: storage provider is invalid")
	ErrStorageDialectUnknown      = errors.New("translated config: storage dialect is invalid")
	ErrStorageDSNRequired         = errors.New("translated config: storage dsn is required for the bun provider")
	ErrCacheRequiresBunStorage    = errors.New("translated config: cache requires the bun storage provider")
	ErrCacheTTLInvalid            = errors.New("translated config: cache ttl must be positive when cache is enabled")
	ErrMarkdownContentDirRequired = errors.New("translated config: markdown content directory is required when markdown is enabled")
	ErrLoggingProviderRequired    = errors.New("translated config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("translated config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("translated config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("translated config: logging format is invalid")
	ErrAdminRoleRequired          = errors.New("translated config: admin role is required when access control is enabled")
)

const (
	StorageMemory = "memory"
	StorageBun    = "bun"

	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Config aggregates the module settings.
type Config struct {
	Locales  locales.Config `json:"locales"`
	Storage  StorageConfig  `json:"storage"`
	Cache    CacheConfig    `json:"cache"`
	Markdown MarkdownConfig `json:"markdown"`
	Logging  LoggingConfig  `json:"logging"`
	Access   AccessConfig   `json:"access"`
	Features Features       `json:"features"`
}

// StorageConfig selects where entities and roles live.
type StorageConfig struct {
	Provider string `json:"provider"`
	Dialect  string `json:"dialect"`
	DSN      string `json:"dsn"`
}

// CacheConfig toggles go-repository-cache in front of the bun repositories.
type CacheConfig struct {
	Enabled    bool          `json:"enabled"`
	DefaultTTL time.Duration `json:"default_ttl"`
}

// MarkdownConfig tunes rendering of markdown fields and the import
// directory.
type MarkdownConfig struct {
	ContentDir string   `json:"content_dir"`
	Extensions []string `json:"extensions"`
	HardWraps  bool     `json:"hard_wraps"`
	SafeMode   bool     `json:"safe_mode"`
}

// LoggingConfig picks the logger backend.
type LoggingConfig struct {
	Provider  string `json:"provider"`
	Level     string `json:"level"`
	Format    string `json:"format"`
	AddSource bool   `json:"add_source"`
}

// AccessConfig names the administrator sentinel role.
type AccessConfig struct {
	AdminRole string `json:"admin_role"`
}

// Features toggles optional behaviour.
type Features struct {
	Logger        bool `json:"logger"`
	Markdown      bool `json:"markdown"`
	AccessControl bool `json:"access_control"`
}

// DefaultConfig keeps everything in memory with the shipped locales.
func DefaultConfig() Config {
	return Config{
		Locales: locales.DefaultConfig(),
		Storage: StorageConfig{
			Provider: StorageMemory,
			Dialect:  DialectSQLite,
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Access: AccessConfig{
			AdminRole: "admin",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if err := cfg.Locales.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrLocalesInvalid, err)
	}

	switch provider := normalize(cfg.Storage.Provider); provider {
	case StorageMemory:
		if cfg.Cache.Enabled {
			return ErrCacheRequiresBunStorage
		}
	case StorageBun:
		switch dialect := normalize(cfg.Storage.Dialect); dialect {
		case DialectSQLite, DialectPostgres:
		default:
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, dialect)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}

	if cfg.Features.Markdown && strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if cfg.Features.AccessControl && strings.TrimSpace(cfg.Access.AdminRole) == "" {
		return ErrAdminRoleRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
