package httpwire

import (
	"strings"

	"github.com/kadekeh/volley/internal/errs"
	"github.com/kadekeh/volley/internal/model"
)

// ParseResponse extracts the status code and header list from the bytes
// received off the wire. It does not interpret body,
// transfer-encoding or content-length: those headers come back as raw
// pairs, and everything after the blank line is ignored.
func ParseResponse(raw []byte) (model.HttpResponse, error) {
	payload := string(raw)

	split := strings.Index(payload, "\r\n\r\n")
	if split < 0 {
		return model.HttpResponse{}, errs.New(errs.ResponseParseFailure, "could not parse http response")
	}

	head := strings.Split(payload[:split], "\r\n")
	if len(head) == 0 {
		return model.HttpResponse{}, errs.New(errs.ResponseParseFailure, "could not parse http response")
	}

	statusLineParts := strings.Split(head[0], " ")
	if len(statusLineParts) < 2 {
		return model.HttpResponse{}, errs.New(errs.ResponseParseFailure, "could not parse http response")
	}

	resp := model.HttpResponse{Status: statusLineParts[1]}
	for _, line := range head[1:] {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		resp.Headers = append(resp.Headers, model.HeaderField{
			Name:  strings.ToLower(key),
			Value: value,
		})
	}

	return resp, nil
}
