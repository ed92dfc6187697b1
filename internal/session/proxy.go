package session

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseProxy normalizes one proxy string into a URL. Accepted forms:
//
//	host:port:user:pass   (provider dashboards export this)
//	user:pass@host:port
//	host:port
//	scheme://[user:pass@]host:port
//
// Scheme defaults to http when absent.
func ParseProxy(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty proxy string")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", raw, err)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("proxy %q has no host", raw)
		}
		return u, nil
	}

	// host:port:user:pass
	if !strings.Contains(raw, "@") {
		if parts := strings.Split(raw, ":"); len(parts) == 4 {
			raw = fmt.Sprintf("%s:%s@%s:%s", parts[2], parts[3], parts[0], parts[1])
		}
	}

	u, err := url.Parse("http://" + raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %q: %w", raw, err)
	}
	if u.Host == "" || u.Port() == "" {
		return nil, fmt.Errorf("proxy %q missing host or port", raw)
	}
	return u, nil
}

// ParseProxies parses a whole configured list, rejecting the first bad
// entry so misconfiguration surfaces before any request is made.
func ParseProxies(raw []string) ([]*url.URL, error) {
	out := make([]*url.URL, 0, len(raw))
	for _, s := range raw {
		u, err := ParseProxy(s)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// redacted renders a proxy URL without credentials for logging.
func redacted(u *url.URL) string {
	if u == nil {
		return "direct"
	}
	return u.Host
}
