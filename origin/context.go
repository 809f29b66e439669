package origin

import (
	"net"
	"net/http"
	"os"
)

// ExecutionContext describes where the code is running. Location reports the
// hostname of the current page; ok is false when there is no addressable page
// location, as in a CLI or during server-side work.
type ExecutionContext interface {
	Location() (hostname string, ok bool)
}

// Headless is a context without a page location.
type Headless struct{}

func (Headless) Location() (string, bool) { return "", false }

// Page is a context whose page is served from a fixed hostname.
type Page struct {
	Hostname string
}

func (p Page) Location() (string, bool) { return p.Hostname, true }

// Request uses the host an incoming request was addressed to as the page
// location, the way a browser exposes window.location.hostname.
func Request(r *http.Request) ExecutionContext {
	if r == nil || r.Host == "" {
		return Headless{}
	}
	return Page{Hostname: hostname(r.Host)}
}

// hostname drops the port from a Host header value, including bracketed IPv6.
func hostname(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	if len(hostport) > 1 && hostport[0] == '[' && hostport[len(hostport)-1] == ']' {
		return hostport[1 : len(hostport)-1]
	}
	return hostport
}

// EnvContext reads the page hostname from an environment variable. An unset
// or empty variable means there is no page.
type EnvContext struct {
	Key string
}

// DefaultHostnameEnv is the variable EnvContext reads when Key is empty.
const DefaultHostnameEnv = "STOCKS_PAGE_HOSTNAME"

func (c *EnvContext) Location() (string, bool) {
	key := c.Key
	if key == "" {
		key = DefaultHostnameEnv
	}
	value := os.Getenv(key)
	if value == "" {
		return "", false
	}
	return value, true
}
