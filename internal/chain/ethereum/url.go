package ethereum

import "net/url"

// redactURL drops credentials and path segments (API keys live there for
// most hosted providers) so endpoints can be logged.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "invalid-url"
	}
	return u.Scheme + "://" + u.Host
}
