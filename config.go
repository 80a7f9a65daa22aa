package navguard

import (
	"errors"
	"fmt"
	"time"
)

// TokenConfig configures the signed session credential.
type TokenConfig struct {
	TTL           time.Duration
	SigningMethod string
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
	MaxFutureIAT  time.Duration
}

// SessionConfig configures the Redis session store.
type SessionConfig struct {
	RedisPrefix       string
	AbsoluteLifetime  time.Duration
	SlidingExpiration bool
	TTLJitterEnabled  bool
	TTLJitterRange    time.Duration
}

// ProfileConfig configures the Redis profile cache in front of the host's
// ProfileProvider.
type ProfileConfig struct {
	RedisPrefix string
	CacheTTL    time.Duration
}

// GuardConfig names the well-known redirect targets. Every route named here
// must be registered in the route table; Build verifies that. RoleHomes must
// cover every classifiable role, and each role's home must be reachable by
// that role, otherwise wrong-role redirects could loop.
type GuardConfig struct {
	LoginRoute        string
	DisabledRoute     string
	VerificationRoute string
	RoleHomes         map[Role]string
}

// AuditConfig configures the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig configures in-process metrics collection.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// Config is the full guard configuration. Obtain a baseline from
// DefaultConfig or ConfigFromEnv, adjust, and pass to Builder.WithConfig.
// Configs are treated as immutable after Build.
type Config struct {
	Token   TokenConfig
	Session SessionConfig
	Profile ProfileConfig
	Guard   GuardConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// DefaultConfig returns the baseline configuration. Signing keys are the one
// thing it cannot default; they must be supplied before Build.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:           15 * time.Minute,
			SigningMethod: "ed25519",
			Leeway:        30 * time.Second,
			MaxFutureIAT:  10 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix:       "nav",
			AbsoluteLifetime:  30 * 24 * time.Hour,
			SlidingExpiration: true,
			TTLJitterEnabled:  true,
			TTLJitterRange:    30 * time.Second,
		},
		Profile: ProfileConfig{
			RedisPrefix: "nav",
			CacheTTL:    15 * time.Minute,
		},
		Guard: GuardConfig{
			LoginRoute:        "login",
			DisabledRoute:     "account_disabled",
			VerificationRoute: "verify_email",
			RoleHomes: map[Role]string{
				RoleRegularUser:      "user_home",
				RoleAdmin:            "admin_dashboard",
				RoleModerator:        "moderator_dashboard",
				RoleAssociationAgent: "association_reports",
			},
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate checks field and cross-field constraints. Build calls it; it is
// exported so hosts can validate assembled configs early.
func (c *Config) Validate() error {
	if c.Token.TTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("token leeway out of range")
	}
	if c.Token.MaxFutureIAT < 0 || c.Token.MaxFutureIAT > 24*time.Hour {
		return errors.New("token MaxFutureIAT out of range")
	}
	switch c.Token.SigningMethod {
	case "ed25519", "hs256":
	default:
		return fmt.Errorf("unsupported signing method %q", c.Token.SigningMethod)
	}
	if c.Session.RedisPrefix == "" {
		return errors.New("session redis prefix required")
	}
	if c.Session.AbsoluteLifetime <= 0 {
		return errors.New("session absolute lifetime must be positive")
	}
	if c.Session.AbsoluteLifetime < c.Token.TTL {
		return errors.New("session absolute lifetime shorter than token TTL")
	}
	if c.Session.TTLJitterEnabled && c.Session.TTLJitterRange <= 0 {
		return errors.New("TTL jitter enabled with non-positive range")
	}
	if c.Profile.RedisPrefix == "" {
		return errors.New("profile redis prefix required")
	}
	if c.Profile.CacheTTL <= 0 {
		return errors.New("profile cache TTL must be positive")
	}
	if c.Guard.LoginRoute == "" || c.Guard.DisabledRoute == "" || c.Guard.VerificationRoute == "" {
		return errors.New("guard redirect routes required")
	}
	for _, role := range []Role{RoleRegularUser, RoleAdmin, RoleModerator, RoleAssociationAgent} {
		if c.Guard.RoleHomes[role] == "" {
			return fmt.Errorf("missing home route for role %s", role)
		}
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	return nil
}

func cloneConfig(c Config) Config {
	out := c
	out.Token.PrivateKey = cloneBytes(c.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(c.Token.PublicKey)
	if c.Guard.RoleHomes != nil {
		out.Guard.RoleHomes = make(map[Role]string, len(c.Guard.RoleHomes))
		for role, home := range c.Guard.RoleHomes {
			out.Guard.RoleHomes[role] = home
		}
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
