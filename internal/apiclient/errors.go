package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/grand-thief-cash/todolist/infra/application/components/http_client"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindBadRequest   Kind = "bad_request"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindNetwork      Kind = "network"
	KindServer       Kind = "server"
)

// APIError is the typed failure of every client call.
type APIError struct {
	Kind    Kind
	Status  int // 0 for network failures
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// KindOf returns the kind of an *APIError anywhere in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// badRequestPrefix is how the server words id mismatches and malformed bodies.
const badRequestPrefix = "bad request"

func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *http_client.StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, http_client.ErrDecode) {
			return &APIError{Kind: KindServer, Message: "unreadable response from server", Err: err}
		}
		return &APIError{Kind: KindNetwork, Message: "could not reach the server", Err: err}
	}
	msg := messageOf(se.Body)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", se.StatusCode)
	}
	ae := &APIError{Status: se.StatusCode, Message: msg, Err: err}
	switch {
	case se.StatusCode == http.StatusBadRequest && strings.HasPrefix(msg, badRequestPrefix):
		ae.Kind = KindBadRequest
	case se.StatusCode == http.StatusBadRequest:
		ae.Kind = KindValidation
	case se.StatusCode == http.StatusUnauthorized:
		ae.Kind = KindUnauthorized
	case se.StatusCode == http.StatusNotFound:
		ae.Kind = KindNotFound
	default:
		ae.Kind = KindServer
	}
	return ae
}

// messageOf reads "title", then "error", from a JSON error body.
func messageOf(body []byte) string {
	var payload struct {
		Title string `json:"title"`
		Error string `json:"error"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if payload.Title != "" {
		return payload.Title
	}
	return payload.Error
}
