// Package transport opens the raw byte stream an HTTP exchange is carried
// over: a TCP connection, optionally wrapped in TLS. net.Conn already
// satisfies the Stream capability for both the plain and TLS-wrapped
// case, so callers never need to distinguish the two after Dial returns.
package transport

import (
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/kadekeh/volley/internal/errs"
)

// Stream is the bidirectional byte stream an HTTP exchange is written to
// and read from. net.Conn (and *tls.Conn, which implements it) satisfies it.
type Stream interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
}

// DialResult carries the opened stream plus the connect and TLS phase
// durations (TLSDuration is zero when scheme is not https).
type DialResult struct {
	Stream        Stream
	ConnDuration  time.Duration
	TLSDuration   time.Duration
}

// Dial opens a TCP connection to ip:port and, when https is true, wraps it
// in a TLS client handshake targeted at serverName. insecure disables both
// certificate validity and hostname verification.
func Dial(ip net.IP, port int, https bool, serverName string, insecure bool) (DialResult, error) {
	addr := net.JoinHostPort(ip.String(), fmt.Sprint(port))

	start := time.Now()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return DialResult{}, errs.Wrap(errs.ConnectFailure, fmt.Sprintf("cannot connect to %s", addr), err)
	}
	connDuration := time.Since(start)

	if !https {
		return DialResult{Stream: conn, ConnDuration: connDuration}, nil
	}

	tlsStart := time.Now()
	tlsConn := tls.Client(conn, &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: insecure,
	})
	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return DialResult{}, errs.Wrap(errs.TlsHandshakeFailure, "cannot establish a tls handshake to "+serverName, err)
	}
	tlsDuration := time.Since(tlsStart)

	return DialResult{Stream: tlsConn, ConnDuration: connDuration, TLSDuration: tlsDuration}, nil
}
