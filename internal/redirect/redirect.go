// Package redirect wraps the request engine with a bounded 3xx follow-up
// loop, method rewriting, and cross-exchange cookie capture.
package redirect

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/kadekeh/volley/internal/cookiejar"
	"github.com/kadekeh/volley/internal/engine"
	"github.com/kadekeh/volley/internal/errs"
	"github.com/kadekeh/volley/internal/model"
	"github.com/kadekeh/volley/internal/resolver"
)

// Run executes flow against scheme://target, following redirects up to
// flow.MaxRedirects, and returns the resulting HttpResult. When onExchange
// is non-nil, it is invoked with every individual exchange (including ones
// later superseded by a redirect) — used by --output debug to print the
// rendered request and raw response for each hop.
func Run(ctx context.Context, res *resolver.Resolver, scheme, target, httpVersion string, flow model.Flow, groupName string, onExchange func(engine.Exchange)) (model.HttpResult, error) {
	startTimestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	currentURL, err := url.Parse(scheme + "://" + target + flow.Path)
	if err != nil {
		return model.HttpResult{}, errs.Wrap(errs.UrlParseError, "could not parse url for flow "+flow.Name, err)
	}

	jar := cookiejar.New()
	jar.SetAll(flow.Cookies, currentURL.Hostname())

	currentMethod := flow.Method
	headers := flow.Headers

	var redirectDuration time.Duration
	redirects := 0

	for {
		host := currentURL.Hostname()
		scopedCookies := jar.Get(host, currentURL.EscapedPath())

		exchange, err := engine.Run(ctx, res, engine.Request{
			URL:         currentURL,
			Method:      currentMethod,
			HTTPVersion: httpVersion,
			Body:        flow.Body,
			Headers:     headers,
			Insecure:    flow.Insecure,
		}, scopedCookies)
		if err != nil {
			return model.HttpResult{}, err
		}
		if onExchange != nil {
			onExchange(exchange)
		}

		if redirects == flow.MaxRedirects || !model.IsRedirectStatus(exchange.Response.Status) {
			return model.HttpResult{
				Group:            groupName,
				Flow:             flow.Name,
				StartTimestamp:   startTimestamp,
				DNSDuration:      exchange.DNSDuration,
				ConnectDuration:  exchange.ConnectDuration,
				TLSDuration:      exchange.TLSDuration,
				RedirectDuration: redirectDuration,
				SendingDuration:  exchange.SendingDuration,
				WaitingDuration:  exchange.WaitingDuration,
				DownloadDuration: exchange.DownloadDuration,
				ResponseStatus:   exchange.Response.Status,
			}, nil
		}

		if exchange.Response.Status == "301" || exchange.Response.Status == "303" {
			currentMethod = "GET"
		}

		location, ok := exchange.Response.Get("location")
		if !ok {
			return model.HttpResult{}, errs.New(errs.MissingLocation, "redirect response for flow "+flow.Name+" is missing a location header")
		}

		jar.SetAll(exchange.Response.All("set-cookie"), host)

		if strings.HasPrefix(location, "http") {
			nextURL, err := url.Parse(location)
			if err != nil {
				return model.HttpResult{}, errs.Wrap(errs.UrlParseError, "could not parse redirect location "+location, err)
			}
			currentURL = nextURL
			headers = nil
		} else {
			nextURL := *currentURL
			pathPart, query, hasQuery := strings.Cut(location, "?")
			nextURL.Path = pathPart
			nextURL.RawPath = ""
			if hasQuery {
				nextURL.RawQuery = query
			} else {
				nextURL.RawQuery = ""
			}
			currentURL = &nextURL
		}

		redirects++
		redirectDuration += exchange.DNSDuration + exchange.ConnectDuration + exchange.TLSDuration +
			exchange.SendingDuration + exchange.WaitingDuration + exchange.DownloadDuration
	}
}
