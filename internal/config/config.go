package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	ServerPort  string
	FrontendURL string

	// Identity provider endpoints and credentials. PublicURL is the
	// browser-facing project URL; ServerURL is a server-side fallback that
	// should normally point at the same project.
	SupabasePublicURL  string
	SupabaseServerURL  string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	// AdminEmail is the single allow-listed email for admin endpoints.
	AdminEmail string

	// RedirectURL overrides the confirmation-email redirect target. When
	// empty, the request origin plus /profile-setup is used.
	RedirectURL string

	// RedisURL enables rate limiting on auth endpoints when set.
	RedisURL      string
	AuthRateLimit string

	// Local fallback store, active only when no provider vars are set.
	LocalStorePath   string
	LocalStoreSecret string

	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		SupabasePublicURL:  getEnvFirst("SUPABASE_PUBLIC_URL", "NEXT_PUBLIC_SUPABASE_URL"),
		SupabaseServerURL:  os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    getEnvFirst("SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),

		AdminEmail:  os.Getenv("ADMIN_EMAIL"),
		RedirectURL: getEnvFirst("SUPABASE_REDIRECT_URL", "NEXT_PUBLIC_DEV_SUPABASE_REDIRECT_URL"),

		RedisURL:      os.Getenv("REDIS_URL"),
		AuthRateLimit: getEnv("AUTH_RATE_LIMIT", "5-S"),

		LocalStorePath:   getEnv("LOCAL_STORE_PATH", "./data/skillecho.json"),
		LocalStoreSecret: getEnv("LOCAL_STORE_SECRET", "skillecho-dev-secret"),

		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	// Partial provider configuration is a deployment mistake; fail fast with
	// a descriptive message instead of surfacing confusing 401s later.
	if cfg.ProviderConfigured() {
		if cfg.SupabasePublicURL == "" && cfg.SupabaseServerURL == "" {
			return nil, fmt.Errorf("identity provider partially configured: set SUPABASE_PUBLIC_URL (or SUPABASE_URL) alongside the provider keys")
		}
		if cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("identity provider partially configured: SUPABASE_ANON_KEY is required when a provider URL is set")
		}
	}

	return cfg, nil
}

// ProviderConfigured reports whether any identity-provider variable is set.
// When false, the service runs against the local fallback store.
func (c *Config) ProviderConfigured() bool {
	return c.SupabasePublicURL != "" || c.SupabaseServerURL != "" ||
		c.SupabaseAnonKey != "" || c.SupabaseServiceKey != ""
}

// ProviderURL resolves the endpoint both tiers should use. The public URL is
// deterministically preferred so the privileged client never writes to a
// different backing project than the one users signed up against.
func (c *Config) ProviderURL() string {
	if c.SupabasePublicURL != "" {
		return c.SupabasePublicURL
	}
	return c.SupabaseServerURL
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFirst(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
