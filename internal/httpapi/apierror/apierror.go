// Package apierror defines the single error envelope every /v1 failure
// response uses, plus the sanitization rules that keep internal detail
// out of 4xx/5xx bodies.
package apierror

import (
	"net/http"
	"regexp"
	"strings"
)

// Code is the closed set of machine-readable error codes the HTTP surface
// emits.
type Code string

const (
	MissingFile          Code = "MISSING_FILE"
	MissingEdits         Code = "MISSING_EDITS"
	InvalidEditsJSON     Code = "INVALID_EDITS_JSON"
	InvalidEditsMarkdown Code = "INVALID_EDITS_MARKDOWN"
	InvalidFileType      Code = "INVALID_FILE_TYPE"
	ZipBombDetected      Code = "ZIP_BOMB_DETECTED"
	InvalidContentType   Code = "INVALID_CONTENT_TYPE"
	InvalidEdits         Code = "INVALID_EDITS"
	PayloadTooLarge      Code = "PAYLOAD_TOO_LARGE"
	Unauthorized         Code = "UNAUTHORIZED"
	DocumentLoadFailed   Code = "DOCUMENT_LOAD_FAILED"
	ExtractionFailed     Code = "EXTRACTION_FAILED"
	ApplyFailed          Code = "APPLY_FAILED"
	RequestTimeout       Code = "REQUEST_TIMEOUT"
	InternalError        Code = "INTERNAL_ERROR"
)

// statusByCode pins every code to its HTTP status, so handlers pass a Code
// and get a consistent status for free.
var statusByCode = map[Code]int{
	MissingFile:          http.StatusBadRequest,
	MissingEdits:         http.StatusBadRequest,
	InvalidEditsJSON:     http.StatusBadRequest,
	InvalidEditsMarkdown: http.StatusBadRequest,
	InvalidFileType:      http.StatusBadRequest,
	ZipBombDetected:      http.StatusBadRequest,
	InvalidContentType:   http.StatusBadRequest,
	InvalidEdits:         http.StatusBadRequest,
	PayloadTooLarge:      http.StatusRequestEntityTooLarge,
	Unauthorized:         http.StatusUnauthorized,
	DocumentLoadFailed:   http.StatusUnprocessableEntity,
	ExtractionFailed:     http.StatusUnprocessableEntity,
	ApplyFailed:          http.StatusUnprocessableEntity,
	RequestTimeout:       http.StatusServiceUnavailable,
	InternalError:        http.StatusInternalServerError,
}

// StatusFor returns the HTTP status code associated with code.
func StatusFor(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Detail is one item in an error's details list (e.g. one validator
// issue).
type Detail struct {
	EditIndex int    `json:"editIndex"`
	BlockId   string `json:"blockId,omitempty"`
	Type      string `json:"type"`
	Message   string `json:"message"`
}

// Body is the JSON shape of the "error" envelope. Details is always an
// array, empty if there's nothing to list — never omitted.
type Body struct {
	Code    Code     `json:"code"`
	Message string   `json:"message"`
	Details []Detail `json:"details"`
}

// Envelope is the top-level response body for any error.
type Envelope struct {
	Error Body `json:"error"`
}

// genericServerMessage is the fixed message every 5xx response carries,
// regardless of the underlying cause.
const genericServerMessage = "An internal server error occurred"

// New builds an Envelope for code with a sanitized message. For 5xx codes
// the message argument is ignored in favor of the fixed generic message.
func New(code Code, message string, details ...Detail) Envelope {
	msg := message
	if StatusFor(code) >= 500 {
		msg = genericServerMessage
	} else {
		msg = Sanitize(msg)
	}
	if details == nil {
		details = []Detail{}
	}
	return Envelope{Error: Body{Code: code, Message: msg, Details: details}}
}

var (
	stackFrameRe = regexp.MustCompile(`(?i)\bat\s+\S+`)
	lineColRe    = regexp.MustCompile(`:?\d+:\d+`)
	unixPathRe   = regexp.MustCompile(`(?:/[\w.\-]+){2,}`)
	winPathRe    = regexp.MustCompile(`[A-Za-z]:\\[\w.\\\-]+`)
)

// Sanitize strips file paths, stack-frame markers, and line:col pointers
// from a message before it reaches a client, per the error-sanitization
// rule: engine/internal detail must never leak into a response.
func Sanitize(msg string) string {
	msg = stackFrameRe.ReplaceAllString(msg, "")
	msg = lineColRe.ReplaceAllString(msg, "")
	msg = unixPathRe.ReplaceAllString(msg, "[path]")
	msg = winPathRe.ReplaceAllString(msg, "[path]")
	return strings.TrimSpace(msg)
}
