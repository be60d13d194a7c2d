package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// ErrorKind classifies failures talking to AEM
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindNotConfigured
	KindAuthentication
	KindForbidden
	KindNotFound
	KindServer
	KindAPI
	KindUnreachable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotConfigured:
		return "not configured"
	case KindAuthentication:
		return "authentication failed"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server error"
	case KindAPI:
		return "api error"
	case KindUnreachable:
		return "unreachable"
	}
	return "transport"
}

// Error is returned by every Client operation
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func errNotConfigured() *Error {
	return &Error{
		Kind:    KindNotConfigured,
		Message: "AEM credentials not configured. Run 'aemctl config set --username <user> --password <pass>' first.",
	}
}

// statusError maps an HTTP error response onto the error taxonomy
func statusError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}
	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindAuthentication
		e.Message = "Authentication failed. Check your username and password."
	case http.StatusForbidden:
		e.Kind = KindForbidden
		e.Message = "Access denied. Your user lacks permission for this operation."
	case http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = "Resource not found. Check that the path exists."
	case http.StatusInternalServerError:
		e.Kind = KindServer
		e.Message = "AEM server error. Check the instance logs for details."
	default:
		e.Kind = KindAPI
		e.Message = fmt.Sprintf("API error (%d): %s", status, bodyMessage(body))
	}
	return e
}

// bodyMessage prefers error.message, then message, then the raw body
func bodyMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// requestError classifies a failure from http.Client.Do
func requestError(err error, baseURL string) *Error {
	cause := err
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		cause = urlErr.Err
	}

	var netErr net.Error
	if errors.As(cause, &netErr) {
		return &Error{
			Kind:    KindUnreachable,
			Message: fmt.Sprintf("Cannot connect to AEM at %s. Is the instance running?", baseURL),
			Err:     err,
		}
	}
	return &Error{Kind: KindTransport, Err: err}
}
