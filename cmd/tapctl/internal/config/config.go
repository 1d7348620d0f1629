package config

import (
	"context"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/client"
)

type contextKey string

const configKey contextKey = "tapctl-config"

// GlobalConfig holds shared configuration for all tapctl commands. It is
// injected into the cobra command context by the root command's
// PersistentPreRun hook and consumed by the subcommands.
type GlobalConfig struct {
	ServerURL string
	Provider  *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics. Only for use
// in RunE functions, where the root command has already injected it.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("tapctl: config not found in context - this is a bug in tapctl")
	}
	return cfg
}
