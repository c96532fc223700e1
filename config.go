package translated

import (
	"github.com/goliatone/go-translated/internal/di"
	"github.com/goliatone/go-translated/internal/runtimeconfig"
	"github.com/uptrace/bun"
)

var (
	ErrLocalesInvalid             = runtimeconfig.ErrLocalesInvalid
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown      = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrCacheRequiresBunStorage    = runtimeconfig.ErrCacheRequiresBunStorage
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrAdminRoleRequired          = runtimeconfig.ErrAdminRoleRequired
)

type (
	Config         = runtimeconfig.Config
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	AccessConfig   = runtimeconfig.AccessConfig
	Features       = runtimeconfig.Features
)

// DefaultConfig returns the in-memory defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// WithBunDB runs the module on an existing bun database.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}
