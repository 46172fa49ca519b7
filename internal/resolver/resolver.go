// Package resolver turns a request hostname into a single IP address,
// timing the lookup. IP-literal hosts (including bracketed IPv6 literals)
// short-circuit with a zero duration; everything else goes through the
// OS's configured resolver exactly once.
package resolver

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/kadekeh/volley/internal/errs"
)

// Result is the outcome of one resolution.
type Result struct {
	IP       net.IP
	Duration time.Duration
}

// Resolver resolves hostnames via the OS's recursive resolver.
type Resolver struct {
	// lookup is swappable in tests.
	lookup func(ctx context.Context, host string) ([]net.IPAddr, error)
}

// New returns a Resolver backed by net.DefaultResolver.
func New() *Resolver {
	return &Resolver{lookup: net.DefaultResolver.LookupIPAddr}
}

// Resolve resolves host to a single IP, timing the lookup. IP literals
// (optionally bracketed, e.g. "[::1]") are returned immediately with a
// zero duration.
func (r *Resolver) Resolve(ctx context.Context, host string) (Result, error) {
	if literal, ok := stripBrackets(host); ok {
		if ip := net.ParseIP(literal); ip != nil {
			return Result{IP: ip}, nil
		}
	}
	if ip := net.ParseIP(host); ip != nil {
		return Result{IP: ip}, nil
	}

	start := time.Now()
	addrs, err := r.lookup(ctx, host)
	duration := time.Since(start)
	if err != nil {
		return Result{}, errs.Wrap(errs.DnsFailure, "could not resolve "+host, err)
	}

	for _, addr := range addrs {
		if addr.IP.To4() != nil || addr.IP.To16() != nil {
			return Result{IP: addr.IP, Duration: duration}, nil
		}
	}
	return Result{}, errs.New(errs.DnsFailure, "unresolved hostname")
}

func stripBrackets(host string) (string, bool) {
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		return host[1 : len(host)-1], true
	}
	return host, false
}
