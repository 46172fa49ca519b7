// Package engine ties the resolver, transport, request renderer and
// response parser into one timed HTTP/1.x exchange: resolve, connect,
// handshake, write, read-until-short-chunk, parse.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/kadekeh/volley/internal/cookiejar"
	"github.com/kadekeh/volley/internal/errs"
	"github.com/kadekeh/volley/internal/httpwire"
	"github.com/kadekeh/volley/internal/model"
	"github.com/kadekeh/volley/internal/resolver"
	"github.com/kadekeh/volley/internal/transport"
)

const readChunkSize = 512

// Exchange is the outcome of one HTTP/1.x request/response round trip.
type Exchange struct {
	DNSDuration      time.Duration
	ConnectDuration  time.Duration
	TLSDuration      time.Duration
	SendingDuration  time.Duration
	WaitingDuration  time.Duration
	DownloadDuration time.Duration
	Response         model.HttpResponse

	// RawRequest and RawResponse are the literal bytes written to and read
	// from the wire. Only --output debug consumes them; every other output
	// mode ignores them.
	RawRequest  []byte
	RawResponse []byte
}

// Request describes one HTTP/1.x exchange to run.
type Request struct {
	URL         *url.URL
	Method      string
	HTTPVersion string
	Body        string
	Headers     map[string]string
	Insecure    bool
}

// Run performs DNS resolution, TCP connect, optional TLS handshake, and the
// request/response exchange, timing every phase.
func Run(ctx context.Context, res *resolver.Resolver, req Request, cookies []cookiejar.Cookie) (Exchange, error) {
	host := req.URL.Hostname()

	dnsResult, err := res.Resolve(ctx, host)
	if err != nil {
		return Exchange{}, err
	}

	port, err := resolvePort(req.URL)
	if err != nil {
		return Exchange{}, err
	}

	dial, err := transport.Dial(dnsResult.IP, port, req.URL.Scheme == "https", host, req.Insecure)
	if err != nil {
		return Exchange{}, err
	}
	defer dial.Stream.Close()

	payload := httpwire.RenderRequest(req.URL, req.Method, req.HTTPVersion, req.Body, req.Headers, cookies)

	sendingDuration, err := writeAll(dial.Stream, payload)
	if err != nil {
		return Exchange{}, err
	}

	waitingDuration, downloadDuration, raw, err := readUntilShort(dial.Stream, req.URL.String())
	if err != nil {
		return Exchange{}, err
	}

	response, err := httpwire.ParseResponse(raw)
	if err != nil {
		return Exchange{}, errs.Wrap(errs.ResponseParseFailure, err.Error()+" for url "+req.URL.String(), err)
	}

	return Exchange{
		DNSDuration:      dnsResult.Duration,
		ConnectDuration:  dial.ConnDuration,
		TLSDuration:      dial.TLSDuration,
		SendingDuration:  sendingDuration,
		WaitingDuration:  waitingDuration,
		DownloadDuration: downloadDuration,
		Response:         response,
		RawRequest:       payload,
		RawResponse:      raw,
	}, nil
}

func resolvePort(u *url.URL) (int, error) {
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return 0, errs.Wrap(errs.UrlParseError, "invalid port in "+u.String(), err)
		}
		return port, nil
	}
	if u.Scheme == "https" {
		return 443, nil
	}
	return 80, nil
}

func writeAll(stream transport.Stream, payload []byte) (time.Duration, error) {
	start := time.Now()
	written := 0
	for written < len(payload) {
		n, err := stream.Write(payload[written:])
		if err != nil {
			return 0, errs.Wrap(errs.SendFailure, "cannot send request to the server", err)
		}
		written += n
	}
	return time.Since(start), nil
}

func readUntilShort(stream transport.Stream, url string) (time.Duration, time.Duration, []byte, error) {
	var waitingDuration time.Duration
	firstRead := true

	start := time.Now()
	var payload []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := stream.Read(chunk)
		if err != nil && n == 0 {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, 0, nil, errs.Wrap(errs.ReadFailure, fmt.Sprintf("could not read server's response for url %s", url), err)
		}

		if firstRead {
			waitingDuration = time.Since(start)
			start = time.Now()
			firstRead = false
		}

		payload = append(payload, chunk[:n]...)

		if n == 0 || n < readChunkSize {
			break
		}
	}

	return waitingDuration, time.Since(start), payload, nil
}
