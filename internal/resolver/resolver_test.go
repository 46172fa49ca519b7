package resolver

import (
	"context"
	"net"
	"testing"

	"github.com/kadekeh/volley/internal/errs"
)

func TestResolveIPv4Literal(t *testing.T) {
	r := New()
	result, err := r.Resolve(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration != 0 {
		t.Fatalf("expected zero duration for ip literal, got %v", result.Duration)
	}
	if !result.IP.Equal(net.ParseIP("127.0.0.1")) {
		t.Fatalf("expected 127.0.0.1, got %v", result.IP)
	}
}

func TestResolveBracketedIPv6Literal(t *testing.T) {
	r := New()
	result, err := r.Resolve(context.Background(), "[::1]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration != 0 {
		t.Fatalf("expected zero duration for ip literal, got %v", result.Duration)
	}
	if !result.IP.Equal(net.ParseIP("::1")) {
		t.Fatalf("expected ::1, got %v", result.IP)
	}
}

func TestResolveHostnameUsesLookup(t *testing.T) {
	r := &Resolver{lookup: func(ctx context.Context, host string) ([]net.IPAddr, error) {
		return []net.IPAddr{{IP: net.ParseIP("10.0.0.5")}}, nil
	}}

	result, err := r.Resolve(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IP.Equal(net.ParseIP("10.0.0.5")) {
		t.Fatalf("expected 10.0.0.5, got %v", result.IP)
	}
}

func TestResolveLookupErrorWrapped(t *testing.T) {
	r := &Resolver{lookup: func(ctx context.Context, host string) ([]net.IPAddr, error) {
		return nil, net.UnknownNetworkError("boom")
	}}

	_, err := r.Resolve(context.Background(), "example.com")
	if !errs.Is(err, errs.DnsFailure) {
		t.Fatalf("expected DnsFailure, got %v", err)
	}
}

func TestResolveEmptyResultSetFails(t *testing.T) {
	r := &Resolver{lookup: func(ctx context.Context, host string) ([]net.IPAddr, error) {
		return nil, nil
	}}

	_, err := r.Resolve(context.Background(), "example.com")
	if !errs.Is(err, errs.DnsFailure) {
		t.Fatalf("expected DnsFailure for empty result set, got %v", err)
	}
}
