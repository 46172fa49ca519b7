// Package httpwire renders HTTP/1.x request bytes and parses response head
// bytes, with no dependency on net/http — hand-assembled wire text, not
// Go's client stack.
package httpwire

import (
	"net/url"
	"sort"
	"strings"

	"github.com/kadekeh/volley/internal/cookiejar"
)

var reservedHeaders = map[string]bool{
	"host":   true,
	"cookie": true,
}

// RenderRequest serializes one HTTP/1.x request line, headers, cookie
// line and body.
func RenderRequest(u *url.URL, method, httpVersion, body string, flowHeaders map[string]string, cookies []cookiejar.Cookie) []byte {
	headers := map[string]string{
		"accept":          "*/*",
		"accept-encoding": "gzip, deflate, br",
	}
	for k, v := range flowHeaders {
		key := strings.ToLower(k)
		if reservedHeaders[key] {
			continue
		}
		headers[key] = v
	}

	var b strings.Builder

	b.WriteString(strings.ToUpper(method))
	b.WriteByte(' ')
	b.WriteString(pathAndQuery(u))
	b.WriteString(" HTTP/")
	b.WriteString(httpVersion)
	b.WriteString("\r\n")

	b.WriteString("host: ")
	b.WriteString(u.Hostname())
	if port := u.Port(); port != "" {
		b.WriteByte(':')
		b.WriteString(port)
	}
	b.WriteString("\r\n")

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(headers[k])
		b.WriteString("\r\n")
	}

	if len(cookies) > 0 {
		pairs := make([]string, 0, len(cookies))
		for _, c := range cookies {
			pairs = append(pairs, c.Name+"="+c.Value)
		}
		b.WriteString("cookie: ")
		b.WriteString(strings.Join(pairs, "; "))
		b.WriteString("\r\n")
	}

	b.WriteString("\r\n")
	b.WriteString(body)

	return []byte(b.String())
}

func pathAndQuery(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		return path + "?" + u.RawQuery
	}
	return path
}
