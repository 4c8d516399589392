// Package origin decides which browser origins may call the API.
//
// The allow-list is compiled once at construction and is read-only
// afterwards, so a Policy is safe for concurrent use.
package origin

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/core/domain"
)

// DefaultAllowedOrigins applies when ALLOWED_ORIGINS is unset.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:5174",
	"https://capstone-project-prepinter.vercel.app",
	"https://*.vercel.app",
}

// AllowedMethods and AllowedHeaders are advertised on every CORS response.
var (
	AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	AllowedHeaders = []string{"Content-Type", "Authorization", "X-Requested-With"}
)

// Decision is the outcome of evaluating a single origin.
type Decision struct {
	Allowed          bool
	AllowCredentials bool
}

// RejectFunc is notified of every denied origin.
type RejectFunc func(origin string)

type matcher struct {
	exact   string
	pattern *regexp.Regexp
}

func (m matcher) match(origin string) bool {
	if m.pattern != nil {
		return m.pattern.MatchString(origin)
	}
	return origin == m.exact
}

// Policy evaluates origins against a compiled allow-list.
type Policy struct {
	matchers   []matcher
	production bool
	log        zerolog.Logger
	onReject   RejectFunc
}

// Option customises a Policy.
type Option func(*Policy)

// WithLogger sets the logger used to report rejected origins.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Policy) { p.log = log }
}

// WithRejectHook registers fn to be called for every rejected origin.
func WithRejectHook(fn RejectFunc) Option {
	return func(p *Policy) { p.onReject = fn }
}

// NewPolicy compiles allowed into a Policy. An empty list falls back to
// DefaultAllowedOrigins. Only production policies ever deny.
func NewPolicy(allowed []string, production bool, opts ...Option) *Policy {
	entries := normalize(allowed)
	if len(entries) == 0 {
		entries = DefaultAllowedOrigins
	}

	p := &Policy{
		matchers:   make([]matcher, 0, len(entries)),
		production: production,
		log:        zerolog.Nop(),
	}
	for _, e := range entries {
		p.matchers = append(p.matchers, compile(e))
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Evaluate decides whether a request declaring origin may proceed. A denied
// origin yields domain.ErrOriginNotAllowed.
func (p *Policy) Evaluate(origin string) (Decision, error) {
	allowed := Decision{Allowed: true, AllowCredentials: true}

	if origin == "" || !p.production {
		return allowed, nil
	}
	for _, m := range p.matchers {
		if m.match(origin) {
			return allowed, nil
		}
	}

	p.log.Warn().Str("origin", origin).Msg("CORS blocked request from origin")
	if p.onReject != nil {
		p.onReject(origin)
	}
	return Decision{AllowCredentials: true}, domain.ErrOriginNotAllowed
}

// AllowOrigin adapts Evaluate to the signature echo's CORS middleware
// expects.
func (p *Policy) AllowOrigin(origin string) (bool, error) {
	d, err := p.Evaluate(origin)
	return d.Allowed, err
}

// Match reports whether origin matches any entry of allowed. Entries may
// contain `*`, which matches zero or more characters; the whole origin must
// match.
func Match(allowed []string, origin string) bool {
	for _, e := range normalize(allowed) {
		if compile(e).match(origin) {
			return true
		}
	}
	return false
}

// ParseList splits a comma-separated allow-list.
func ParseList(raw string) []string {
	return normalize(strings.Split(raw, ","))
}

func normalize(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func compile(entry string) matcher {
	if !strings.Contains(entry, "*") {
		return matcher{exact: entry}
	}
	parts := strings.Split(entry, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return matcher{pattern: regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")}
}
