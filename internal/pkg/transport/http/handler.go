package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/exception"
)

// MakeHandlerFunc serves an endpoint over HTTP. Endpoint and decode errors are
// written with ErrorResponse.
func MakeHandlerFunc(
	e endpoint.Endpoint,
	dec kithttp.DecodeRequestFunc,
	enc kithttp.EncodeResponseFunc,
) http.HandlerFunc {
	return kithttp.NewServer(e, dec, enc,
		kithttp.ServerErrorEncoder(ErrorResponse),
	).ServeHTTP
}

// DecodeRequest decodes a JSON body into a *T. When *T is a render.Binder its
// Bind runs before the request reaches the endpoint.
func DecodeRequest[T any](_ context.Context, r *http.Request) (interface{}, error) {
	var req T

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return nil, exception.ApplicationError{
			Message:    "invalid request body",
			StatusCode: http.StatusBadRequest,
			Cause:      err,
		}
	}

	if binder, ok := any(&req).(render.Binder); ok {
		if err := binder.Bind(r); err != nil {
			return nil, fmt.Errorf("bind request: %w", err)
		}
	}

	return &req, nil
}

// DecodeNothing is the decoder for endpoints without a request body.
func DecodeNothing(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}
