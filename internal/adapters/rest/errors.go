package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/crm/internal/ports/secondary"
)

// codeNoRows is the query error code for a single-row request matching
// nothing.
const codeNoRows = "PGRST116"

const fallbackMessage = "an unexpected error occurred, try again"

// Error is a non-2xx answer from the backend. The relational store fills
// Code, Message, Details and Hint; the identity service fills
// ErrorDescription or Msg.
type Error struct {
	StatusCode       int
	Code             string
	Message          string
	Details          string
	Hint             string
	ErrorDescription string
	Msg              string
}

// Error returns the backend's own message, which callers match on.
func (e *Error) Error() string {
	return HandleBackendError(e)
}

// Unwrap maps the no-rows answer to secondary.ErrNotFound.
func (e *Error) Unwrap() error {
	if e.Code == codeNoRows {
		return secondary.ErrNotFound
	}
	return nil
}

// HandleBackendError returns the human readable text of a backend error:
// message, else error_description, else msg, else a generic message.
func HandleBackendError(err error) string {
	var be *Error
	if !errors.As(err, &be) {
		return fallbackMessage
	}
	for _, text := range []string{be.Message, be.ErrorDescription, be.Msg} {
		if text != "" {
			return text
		}
	}
	return fallbackMessage
}

// errorBody accepts both error shapes. code is a string in the relational
// store and a number in the identity service.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Message          string          `json:"message"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Msg              string          `json:"msg"`
}

func parseError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}
	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = fmt.Sprintf("unexpected status %d", status)
		}
		return e
	}
	e.Code = strings.Trim(string(b.Code), `"`)
	if b.ErrorCode != "" {
		e.Code = b.ErrorCode
	} else if e.Code == "" {
		e.Code = b.Error
	}
	e.Message = b.Message
	e.Details = b.Details
	e.Hint = b.Hint
	e.ErrorDescription = b.ErrorDescription
	e.Msg = b.Msg
	return e
}
