// Package httputil writes the service's JSON envelopes.
//
// Every response carries {success, message, responseCode}; handlers embed Response
// in their payload structs and add fields next to it.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "stargate/pkg/domain-errors"
)

// InternalErrorMessage replaces the detail of any server-side failure.
const InternalErrorMessage = "An internal server error occurred. Please try again later."

// maxBodyBytes caps request bodies; commands are a handful of short strings.
const maxBodyBytes = 1 << 20

// Response is the envelope shared by every endpoint.
type Response struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ResponseCode int    `json:"responseCode"`
}

// OK builds a successful envelope with an optional message.
func OK(message string) Response {
	return Response{Success: true, Message: message, ResponseCode: http.StatusOK}
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status via its domain code. Client errors keep their
// message; everything else is reported with InternalErrorMessage.
func WriteError(w http.ResponseWriter, err error) {
	status := dErrors.ToHTTPStatus(dErrors.CodeOf(err))
	message := InternalErrorMessage
	if dErrors.IsClientError(err) {
		message = dErrors.Message(err)
	}
	WriteJSON(w, status, Response{Success: false, Message: message, ResponseCode: status})
}

// DecodeJSON decodes the request body into v. Malformed or empty bodies become
// bad_request errors.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "Request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "Request body is not valid JSON")
	}
	return nil
}

// Validatable is implemented by request bodies that normalize and check
// themselves once decoded.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes the body into a new T and validates it. On failure it
// logs, writes the error response and returns false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	if err := DecodeJSON(r, req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	if err := PT(req).Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
