package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ijalalfrz/award-search-crawler/internal/app/dto"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/exception"
)

// ResponseWithBody is the common method to encode all response types to the client.
func ResponseWithBody(_ context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("encode response body: %w", err)
	}

	return nil
}

// ErrorResponse encodes the error response to the client. Application errors
// keep their status and message; anything else is a 500. The cause of an
// upstream failure is logged but never sent.
func ErrorResponse(ctx context.Context, err error, respWriter http.ResponseWriter) {
	var (
		appErr  exception.ApplicationError
		status  = http.StatusInternalServerError
		message = err.Error()
	)

	switch {
	case errors.As(err, &appErr):
		status = appErr.StatusCode
		message = appErr.Message

		if appErr.Upstream() {
			slog.WarnContext(ctx, message, slog.Int("status", status), slog.Any("error", err))
		}
	case errors.Is(err, context.Canceled):
		// client went away
		slog.InfoContext(ctx, "request canceled", slog.String("error", err.Error()))
	default:
		slog.ErrorContext(ctx, message, slog.Any("error", err))
	}

	respWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	respWriter.WriteHeader(status)

	//nolint:errcheck,errchkjson
	json.NewEncoder(respWriter).Encode(dto.ErrorResponse{
		Error: message,
	})
}
