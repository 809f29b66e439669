// Package origin decides which backend origin the stock pages talk to.
//
// The choice depends only on the execution context: code running behind a
// page served from anywhere but the loopback host talks to the hosted
// backend, everything else talks to the local development backend.
package origin

const (
	// DefaultLocal is the development backend.
	DefaultLocal = "http://localhost:8000"
	// DefaultProduction is the hosted backend.
	DefaultProduction = "https://backend-stock-market-positions-aler.vercel.app"
)

// Source yields the origin requests should be sent to.
type Source interface {
	BaseOrigin() string
}

// Fixed is a Source that always returns itself.
type Fixed string

func (f Fixed) BaseOrigin() string { return string(f) }

// Resolver picks between a local and a production origin.
type Resolver struct {
	Local      string
	Production string
	Context    ExecutionContext
}

// NewResolver returns a resolver for the given origins. Empty origins fall
// back to the defaults and a nil context is headless.
func NewResolver(local, production string, ctx ExecutionContext) *Resolver {
	if local == "" {
		local = DefaultLocal
	}
	if production == "" {
		production = DefaultProduction
	}
	if ctx == nil {
		ctx = Headless{}
	}
	return &Resolver{Local: local, Production: production, Context: ctx}
}

// WithContext returns a copy of r bound to ctx.
func (r *Resolver) WithContext(ctx ExecutionContext) *Resolver {
	c := *r
	c.Context = ctx
	return &c
}

// BaseOrigin returns the production origin when a page location is available
// and its hostname is not exactly "localhost" or "127.0.0.1", and the local
// origin otherwise. It never fails and has no side effects.
func (r *Resolver) BaseOrigin() string {
	if r.Context == nil {
		return r.Local
	}
	host, ok := r.Context.Location()
	if !ok || IsLoopback(host) {
		return r.Local
	}
	return r.Production
}

// IsLoopback reports whether host is one of the development hostnames.
// The match is exact: "mylocalhost" is not loopback.
func IsLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1"
}
