package navguard

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides holds the scalar knobs that may be hydrated from the
// environment. Keys and redirect-target maps stay programmatic; pointers
// distinguish "unset" from zero values.
type envOverrides struct {
	TokenTTL          *time.Duration `env:"NAVGUARD_TOKEN_TTL"`
	TokenMethod       *string        `env:"NAVGUARD_TOKEN_SIGNING_METHOD"`
	TokenIssuer       *string        `env:"NAVGUARD_TOKEN_ISSUER"`
	SessionPrefix     *string        `env:"NAVGUARD_SESSION_PREFIX"`
	SessionLifetime   *time.Duration `env:"NAVGUARD_SESSION_LIFETIME"`
	SessionSliding    *bool          `env:"NAVGUARD_SESSION_SLIDING"`
	ProfilePrefix     *string        `env:"NAVGUARD_PROFILE_PREFIX"`
	ProfileCacheTTL   *time.Duration `env:"NAVGUARD_PROFILE_CACHE_TTL"`
	LoginRoute        *string        `env:"NAVGUARD_LOGIN_ROUTE"`
	DisabledRoute     *string        `env:"NAVGUARD_DISABLED_ROUTE"`
	VerificationRoute *string        `env:"NAVGUARD_VERIFICATION_ROUTE"`
	AuditEnabled      *bool          `env:"NAVGUARD_AUDIT_ENABLED"`
	AuditBufferSize   *int           `env:"NAVGUARD_AUDIT_BUFFER_SIZE"`
	MetricsEnabled    *bool          `env:"NAVGUARD_METRICS_ENABLED"`
}

// ConfigFromEnv returns the default configuration with NAVGUARD_* environment
// overrides applied. The result is not validated; Build validates after the
// host has set keys and any programmatic overrides.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()

	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if o.TokenTTL != nil {
		cfg.Token.TTL = *o.TokenTTL
	}
	if o.TokenMethod != nil {
		cfg.Token.SigningMethod = *o.TokenMethod
	}
	if o.TokenIssuer != nil {
		cfg.Token.Issuer = *o.TokenIssuer
	}
	if o.SessionPrefix != nil {
		cfg.Session.RedisPrefix = *o.SessionPrefix
	}
	if o.SessionLifetime != nil {
		cfg.Session.AbsoluteLifetime = *o.SessionLifetime
	}
	if o.SessionSliding != nil {
		cfg.Session.SlidingExpiration = *o.SessionSliding
	}
	if o.ProfilePrefix != nil {
		cfg.Profile.RedisPrefix = *o.ProfilePrefix
	}
	if o.ProfileCacheTTL != nil {
		cfg.Profile.CacheTTL = *o.ProfileCacheTTL
	}
	if o.LoginRoute != nil {
		cfg.Guard.LoginRoute = *o.LoginRoute
	}
	if o.DisabledRoute != nil {
		cfg.Guard.DisabledRoute = *o.DisabledRoute
	}
	if o.VerificationRoute != nil {
		cfg.Guard.VerificationRoute = *o.VerificationRoute
	}
	if o.AuditEnabled != nil {
		cfg.Audit.Enabled = *o.AuditEnabled
	}
	if o.AuditBufferSize != nil {
		cfg.Audit.BufferSize = *o.AuditBufferSize
	}
	if o.MetricsEnabled != nil {
		cfg.Metrics.Enabled = *o.MetricsEnabled
	}

	return cfg, nil
}
