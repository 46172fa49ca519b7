// Package model holds the plan data types shared across the load generator:
// the parsed configuration tree and the per-request result record.
package model

import "time"

// Configuration is the root of a load test plan.
type Configuration struct {
	Scheme      string  `yaml:"scheme"`
	HTTPVersion string  `yaml:"http_version"`
	Target      string  `yaml:"target"`
	Groups      []Group `yaml:"groups"`
}

// Group is a set of virtual users sharing a flow list and a deadline.
type Group struct {
	Name     string `yaml:"name"`
	Users    int    `yaml:"users"`
	Duration int    `yaml:"duration"`
	Flows    []Flow `yaml:"flows"`
}

// Flow is one ordered HTTP request description, replayed by every virtual
// user in its group.
type Flow struct {
	Name         string            `yaml:"name"`
	Path         string            `yaml:"path"`
	Method       string            `yaml:"method"`
	MaxRedirects int               `yaml:"max_redirects"`
	Body         string            `yaml:"body"`
	Headers      map[string]string `yaml:"headers"`
	Cookies      []string          `yaml:"cookies"`
	Insecure     bool              `yaml:"insecure"`
}

// HttpResponse is the parsed head of one HTTP exchange: a status code and
// an ordered list of header pairs, duplicates preserved (needed for
// multiple Set-Cookie lines).
type HttpResponse struct {
	Status  string
	Headers []HeaderField
}

// HeaderField is one (lower-cased name, raw value) header pair.
type HeaderField struct {
	Name  string
	Value string
}

// Get returns the first header value for name (already lower-cased), and
// whether it was present.
func (r *HttpResponse) Get(name string) (string, bool) {
	for _, h := range r.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// All returns every header value for name, in encounter order.
func (r *HttpResponse) All(name string) []string {
	var values []string
	for _, h := range r.Headers {
		if h.Name == name {
			values = append(values, h.Value)
		}
	}
	return values
}

// IsRedirectStatus reports whether status is one of the five redirect codes
// the redirect driver follows.
func IsRedirectStatus(status string) bool {
	switch status {
	case "301", "302", "303", "307", "308":
		return true
	}
	return false
}

// HttpResult is one immutable, emitted record of a completed flow
// execution (including any redirects it followed).
type HttpResult struct {
	Group            string
	Flow             string
	StartTimestamp   string
	DNSDuration      time.Duration
	ConnectDuration  time.Duration
	TLSDuration      time.Duration
	RedirectDuration time.Duration
	SendingDuration  time.Duration
	WaitingDuration  time.Duration
	DownloadDuration time.Duration
	ResponseStatus   string
}

// Total is the sum of every phase duration.
func (r HttpResult) Total() time.Duration {
	return r.DNSDuration + r.ConnectDuration + r.TLSDuration + r.RedirectDuration +
		r.SendingDuration + r.WaitingDuration + r.DownloadDuration
}
