package common

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	tagChars       = regexp.MustCompile(`[<>]`)
	jsProtocol     = regexp.MustCompile(`(?i)javascript:`)
	inlineHandlers = regexp.MustCompile(`(?i)on\w+=`)
)

// MaxQueryLength bounds free-text search input.
const MaxQueryLength = 200

// SanitizeInput strips markup and script vectors from user-supplied search
// text and trims it to MaxQueryLength runes.
func SanitizeInput(input string) string {
	s := tagChars.ReplaceAllString(input, "")
	s = jsProtocol.ReplaceAllString(s, "")
	s = inlineHandlers.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxQueryLength {
		s = string(r[:MaxQueryLength])
	}
	return s
}

// IsAllowedURL reports whether rawURL is absolute http(s) and its host is one
// of allowedDomains or a subdomain of one.
func IsAllowedURL(rawURL string, allowedDomains ...string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	for _, d := range allowedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Redact masks values whose key looks secret, or that are long enough to be a
// credential, before they reach a log line.
func Redact(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "key") || strings.Contains(lk, "token") || strings.Contains(lk, "secret") || len(v) > 30 {
			out[k] = "***REDACTED***"
			continue
		}
		out[k] = v
	}
	return out
}

// ContentSecurityPolicy is the CSP sent with every API response.
var ContentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' https://www.youtube.com",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data: https: https://i.ytimg.com",
	"font-src 'self' data:",
	"connect-src 'self' https://www.googleapis.com https://www.youtube.com",
	"frame-src https://www.youtube.com",
	"media-src 'self' https://www.youtube.com",
}, "; ")
