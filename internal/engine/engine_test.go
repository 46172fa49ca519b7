package engine

import (
	"bufio"
	"context"
	"net"
	"net/url"
	"testing"

	"github.com/kadekeh/volley/internal/resolver"
)

// serveOnce accepts exactly one connection, reads its request head up to
// the blank line, and replies with response.
func serveOnce(t *testing.T, response string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		conn.Write([]byte(response))
	}()

	return ln.Addr().String()
}

func TestRunBasicExchange(t *testing.T) {
	addr := serveOnce(t, "HTTP/1.1 200 OK\r\ncontent-length: 0\r\n\r\n")

	u, err := url.Parse("http://" + addr + "/x")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	ex, err := Run(context.Background(), resolver.New(), Request{
		URL:         u,
		Method:      "GET",
		HTTPVersion: "1.1",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ex.Response.Status != "200" {
		t.Fatalf("expected status 200, got %q", ex.Response.Status)
	}
	if ex.DNSDuration != 0 {
		t.Fatalf("expected zero dns duration for ip target, got %v", ex.DNSDuration)
	}
	if ex.TLSDuration != 0 {
		t.Fatalf("expected zero tls duration for http scheme, got %v", ex.TLSDuration)
	}
}

func TestRunConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close() // nothing listening anymore

	u, err := url.Parse("http://" + addr + "/x")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	_, err = Run(context.Background(), resolver.New(), Request{
		URL:         u,
		Method:      "GET",
		HTTPVersion: "1.1",
	}, nil)
	if err == nil {
		t.Fatal("expected connect failure, got nil")
	}
}
