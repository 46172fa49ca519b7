// Package cookiejar implements an RFC 6265-inspired, domain/path-scoped
// cookie store for one flow execution: never shared across virtual users,
// seeded once from the flow's literal cookies and updated from Set-Cookie
// headers as redirects are followed.
package cookiejar

import (
	"strings"

	"golang.org/x/net/idna"
)

// Cookie is one stored, scoped cookie.
type Cookie struct {
	Domain               string
	IncludingSubdomains  bool
	Path                 string
	Name                 string
	Value                string
}

// Jar is a flat, append/replace list of cookies. It is never safe to share
// across goroutines — each flow execution creates its own empty Jar.
type Jar struct {
	cookies []Cookie
}

// New returns an empty jar.
func New() *Jar {
	return &Jar{}
}

// Get returns every cookie scoped to host and whose stored path is a
// prefix of path.
func (j *Jar) Get(host, path string) []Cookie {
	host = normalizeHost(host)
	var scoped []Cookie
	for _, c := range j.cookies {
		if !domainMatches(c, host) {
			continue
		}
		if !strings.HasPrefix(path, c.Path) {
			continue
		}
		scoped = append(scoped, c)
	}
	return scoped
}

func domainMatches(c Cookie, host string) bool {
	if c.IncludingSubdomains {
		return host == c.Domain || strings.HasSuffix(host, "."+c.Domain)
	}
	return host == c.Domain
}

// SetAll parses each raw Set-Cookie-syntax string and upserts it into the
// jar, keyed by (domain, name), scoped relative to currentHost.
func (j *Jar) SetAll(raw []string, currentHost string) {
	currentHost = normalizeHost(currentHost)
	for _, line := range raw {
		cookie, ok := parseSetCookie(line, currentHost)
		if !ok {
			continue
		}
		if !strings.HasSuffix(cookie.Domain, currentHost) {
			continue
		}
		j.upsert(cookie)
	}
}

func (j *Jar) upsert(c Cookie) {
	for i := range j.cookies {
		if j.cookies[i].Domain == c.Domain && j.cookies[i].Name == c.Name {
			j.cookies[i] = c
			return
		}
	}
	j.cookies = append(j.cookies, c)
}

func parseSetCookie(line, currentHost string) (Cookie, bool) {
	segments := strings.Split(line, "; ")
	if len(segments) == 0 {
		return Cookie{}, false
	}
	nameValue := strings.SplitN(segments[0], "=", 2)
	if len(nameValue) != 2 {
		return Cookie{}, false
	}

	domain := currentHost
	includingSubdomains := false
	path := "/"

	for _, attr := range segments[1:] {
		switch {
		case hasAttrPrefix(attr, "domain="):
			value := attr[len("domain="):]
			value = strings.TrimPrefix(value, ".")
			value = normalizeHost(value)
			if value == "" {
				return Cookie{}, false
			}
			domain = value
			includingSubdomains = true
		case hasAttrPrefix(attr, "path="):
			value := attr[len("path="):]
			path = strings.TrimSuffix(value, "/")
			if path == "" {
				path = "/"
			}
		}
	}

	return Cookie{
		Domain:              domain,
		IncludingSubdomains: includingSubdomains,
		Path:                path,
		Name:                strings.TrimSpace(nameValue[0]),
		Value:               nameValue[1],
	}, true
}

// hasAttrPrefix matches a cookie attribute name case-insensitively, e.g.
// both "Domain=" and "domain=" match "domain=".
func hasAttrPrefix(attr, lowerPrefix string) bool {
	if len(attr) < len(lowerPrefix) {
		return false
	}
	return strings.EqualFold(attr[:len(lowerPrefix)], lowerPrefix)
}

// normalizeHost lower-cases host and, for non-ASCII hostnames, folds it
// through IDNA so a cookie set for a punycode domain still matches a
// request for its Unicode form (and vice versa).
func normalizeHost(host string) string {
	host = strings.ToLower(host)
	if ascii, err := idna.ToASCII(host); err == nil {
		return ascii
	}
	return host
}
