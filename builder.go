package navguard

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/safezone-app/navguard/profile"
	"github.com/safezone-app/navguard/route"
	"github.com/safezone-app/navguard/session"
	"github.com/safezone-app/navguard/token"
)

// Builder assembles a Guard. Builders are single-use and not safe for
// concurrent use; Build freezes the route table and returns the engine.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	routes   *route.Table
	provider ProfileProvider
	sink     AuditSink
	built    bool
}

// New returns a Builder loaded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client shared by the session store and profile
// cache.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRoutes sets the navigation table. Build freezes it.
func (b *Builder) WithRoutes(table *route.Table) *Builder {
	b.routes = table
	return b
}

// WithProfileProvider sets the host's profile source.
func (b *Builder) WithProfileProvider(p ProfileProvider) *Builder {
	b.provider = p
	return b
}

// WithAuditSink sets the audit destination. Required when auditing is
// enabled in the configuration.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles metric collection without replacing the config.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration against the route table, freezes the
// table, and wires the engine. The builder cannot be reused afterwards.
func (b *Builder) Build() (*Guard, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, ErrRedisRequired
	}
	if b.routes == nil || b.routes.Count() == 0 {
		return nil, ErrRoutesRequired
	}
	if b.provider == nil {
		return nil, ErrProfileProviderRequired
	}
	if b.config.Audit.Enabled && b.sink == nil {
		return nil, errors.New("audit enabled without a sink")
	}

	if err := b.validateGuardTargets(); err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		TTL:           b.config.Token.TTL,
		SigningMethod: token.SigningMethod(b.config.Token.SigningMethod),
		PrivateKey:    b.config.Token.PrivateKey,
		PublicKey:     b.config.Token.PublicKey,
		Issuer:        b.config.Token.Issuer,
		Leeway:        b.config.Token.Leeway,
		MaxFutureIAT:  b.config.Token.MaxFutureIAT,
	})
	if err != nil {
		return nil, err
	}

	b.routes.Freeze()
	b.built = true

	return &Guard{
		config: b.config,
		routes: b.routes,
		sessions: session.NewStore(
			b.redis,
			b.config.Session.RedisPrefix,
			b.config.Session.SlidingExpiration,
			b.config.Session.TTLJitterEnabled,
			b.config.Session.TTLJitterRange,
		),
		tokens:   tokens,
		profiles: profile.NewCache(b.redis, b.provider, b.config.Profile.RedisPrefix, b.config.Profile.CacheTTL),
		audit:    newAuditDispatcher(b.config.Audit, b.sink),
		metrics:  NewMetrics(b.config.Metrics),
		built:    true,
	}, nil
}

// validateGuardTargets checks every route the configuration names against
// the table. Misconfigured redirect targets must fail at startup, not at
// the first denial.
func (b *Builder) validateGuardTargets() error {
	login, ok := b.routes.Lookup(b.config.Guard.LoginRoute)
	if !ok {
		return fmt.Errorf("%w: login route %q", ErrRouteNotFound, b.config.Guard.LoginRoute)
	}
	if login.Policy != route.Public {
		return fmt.Errorf("login route %q must be public", login.Name)
	}

	if _, ok := b.routes.Lookup(b.config.Guard.DisabledRoute); !ok {
		return fmt.Errorf("%w: disabled route %q", ErrRouteNotFound, b.config.Guard.DisabledRoute)
	}
	if _, ok := b.routes.Lookup(b.config.Guard.VerificationRoute); !ok {
		return fmt.Errorf("%w: verification route %q", ErrRouteNotFound, b.config.Guard.VerificationRoute)
	}

	for role, home := range b.config.Guard.RoleHomes {
		rt, ok := b.routes.Lookup(home)
		if !ok {
			return fmt.Errorf("%w: home route %q for role %s", ErrRouteNotFound, home, role)
		}
		// A home the role itself cannot enter would bounce wrong-role
		// redirects forever.
		if rt.Policy == route.AuthenticatedRole && !rt.Roles.Has(role.Bit()) {
			return fmt.Errorf("home route %q does not admit role %s", home, role)
		}
	}

	return nil
}
