package report

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/MOYARU/cspissues/internal/config"
)

var (
	reBearer    = regexp.MustCompile(`(?i)\b(bearer\s+)([a-z0-9\-\._~\+\/]+=*)`)
	reApiKeyKV  = regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token|token|secret)\s*[:=]\s*([^\s,;&]+)`)
	reCookieHdr = regexp.MustCompile(`(?im)^(cookie|authorization):[ \t]*([^\r\n]*)`)
	reLongToken = regexp.MustCompile(`\b[a-zA-Z0-9_\-]{24,}\b`)
	customOnce  sync.Once
	customRes   []*regexp.Regexp
)

// SanitizeRecord redacts credentials from the URL and request transcripts.
// Responses are left intact so header markers keep pointing at the right bytes.
func SanitizeRecord(r Record) Record {
	r.URL = SanitizeURL(r.URL)
	if u, err := url.Parse(r.URL); err == nil && u.EscapedPath() != "" {
		r.Path = u.EscapedPath()
	}

	evidence := make([]Evidence, len(r.Evidence))
	for i, e := range r.Evidence {
		raw, err := base64.StdEncoding.DecodeString(e.Request)
		if err == nil {
			clean := sanitizeRequest(string(raw))
			if clean != string(raw) {
				e.Request = base64.StdEncoding.EncodeToString([]byte(clean))
				e.RequestMarkers = nil
			}
		}
		e.Comment = SanitizeText(e.Comment)
		evidence[i] = e
	}
	r.Evidence = evidence
	return r
}

func sanitizeRequest(raw string) string {
	out := reCookieHdr.ReplaceAllString(raw, "${1}: <redacted>")
	head, body, hasBody := strings.Cut(out, "\r\n\r\n")

	lines := strings.Split(head, "\r\n")
	if parts := strings.SplitN(lines[0], " ", 3); len(parts) == 3 {
		lines[0] = parts[0] + " " + SanitizeURL(parts[1]) + " " + parts[2]
	}
	for i := 1; i < len(lines); i++ {
		lines[i] = sanitizeHeaderLine(lines[i])
	}

	clean := strings.Join(lines, "\r\n")
	if hasBody {
		clean += "\r\n\r\n"
		if body != "" {
			clean += SanitizeText(body)
		}
	}
	return clean
}

// sanitizeHeaderLine blanks headers whose name suggests a credential and
// leaves Host untouched.
func sanitizeHeaderLine(line string) string {
	rawName, _, ok := strings.Cut(line, ":")
	if !ok {
		return line
	}
	name := strings.ToLower(strings.TrimSpace(rawName))
	if name == "host" {
		return line
	}
	if sensitiveName(name) {
		return rawName + ": <redacted>"
	}
	out := reBearer.ReplaceAllString(line, "${1}<redacted>")
	out = reApiKeyKV.ReplaceAllString(out, "${1}=<redacted>")
	for _, re := range customRegexes() {
		out = re.ReplaceAllString(out, "<redacted>")
	}
	return out
}

func sensitiveName(name string) bool {
	name = strings.ToLower(name)
	for _, marker := range []string{"token", "key", "secret", "auth", "session", "pass"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func shortenLongTokens(s string) string {
	return reLongToken.ReplaceAllStringFunc(s, func(tok string) string {
		return tok[:4] + "...<redacted>..." + tok[len(tok)-4:]
	})
}

func SanitizeText(s string) string {
	out := s
	out = reBearer.ReplaceAllString(out, "${1}<redacted>")
	out = reApiKeyKV.ReplaceAllString(out, "${1}=<redacted>")
	out = shortenLongTokens(out)
	for _, re := range customRegexes() {
		out = re.ReplaceAllString(out, "<redacted>")
	}
	return out
}

func customRegexes() []*regexp.Regexp {
	customOnce.Do(func() {
		for _, p := range config.LoadRedactionPatterns() {
			re, err := regexp.Compile(p)
			if err == nil {
				customRes = append(customRes, re)
			}
		}
	})
	return customRes
}

// SanitizeURL redacts credential-looking query parameters and userinfo.
// Works on absolute URLs and request-target paths alike.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return SanitizeText(raw)
	}

	if u.User != nil {
		u.User = url.User("redacted")
	}
	if u.RawQuery == "" {
		return u.String()
	}

	pairs := strings.Split(u.RawQuery, "&")
	changed := false
	for i, pair := range pairs {
		rawKey, _, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		if sensitiveName(key) {
			pairs[i] = rawKey + "=" + url.QueryEscape("<redacted>")
			changed = true
		}
	}
	if changed {
		u.RawQuery = strings.Join(pairs, "&")
	}
	return u.String()
}
