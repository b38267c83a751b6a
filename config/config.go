// Package config loads runtime configuration from the environment.
//
// Variables are read with the OMRHUB_ prefix (optionally from a .env file),
// mapped into a typed Config and validated so the process fails fast on
// missing required values.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "OMRHUB_"

// Config is the root configuration for the admin API.
type Config struct {
	ListenAddr string `koanf:"listen_addr"`

	SupabaseURL        string `koanf:"supabase_url" validate:"required"`
	SupabaseServiceKey string `koanf:"supabase_service_key" validate:"required"`

	JWTSecret string `koanf:"jwt_secret" validate:"required"`
	JWTIssuer string `koanf:"jwt_issuer"`

	// MediaBuckets is the ordered list of storage buckets probed when
	// signing retrieval URLs. The first entry is also the upload target.
	MediaBuckets []string `koanf:"media_buckets"`

	MaxImageBytes int64 `koanf:"max_image_bytes"`
	MaxVideoBytes int64 `koanf:"max_video_bytes"`

	AppStoreID  string `koanf:"app_store_id"`
	AppStoreURL string `koanf:"app_store_url"`
	AppBundleID string `koanf:"app_bundle_id"`
}

// Load reads OMRHUB_* environment variables into a validated Config.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if len(c.MediaBuckets) == 0 {
		// Ordered fallback list; older rows reference buckets that predate
		// the omr-media consolidation.
		c.MediaBuckets = []string{"omr-media", "media", "uploads"}
	}
	if c.MaxImageBytes == 0 {
		c.MaxImageBytes = 5 << 20
	}
	if c.MaxVideoBytes == 0 {
		c.MaxVideoBytes = 100 << 20
	}
	if c.AppStoreURL == "" {
		c.AppStoreURL = "https://apps.apple.com/app/omr-hub/id000000000"
	}
}
