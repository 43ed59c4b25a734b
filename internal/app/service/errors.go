package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/crawler"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/exception"
)

var (
	ErrNoAwardsFound      = exception.New(http.StatusNotFound, "no award flights found")
	ErrInvalidQuery       = exception.New(http.StatusBadRequest, "invalid search query")
	ErrUnknownCarrier     = exception.New(http.StatusBadRequest, "carrier is not supported")
	ErrRateLimited        = exception.New(http.StatusTooManyRequests, "too many searches for this carrier, try again later")
	ErrCarrierLoginFailed = exception.New(http.StatusBadGateway, "could not sign in to the carrier site")
	ErrCarrierUnavailable = exception.New(http.StatusBadGateway, "carrier search failed")
	ErrSearchTimeout      = exception.New(http.StatusGatewayTimeout, "carrier search timed out")
)

// crawlError maps a crawl failure onto the error the caller sees.
func crawlError(err error) error {
	switch {
	case errors.Is(err, crawler.ErrUnknownCarrier):
		return ErrUnknownCarrier.WithCause(err)
	case errors.Is(err, award.ErrInvalidQuery):
		return ErrInvalidQuery.WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return ErrSearchTimeout.WithCause(err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, crawler.ErrLoginFailed):
		return ErrCarrierLoginFailed.WithCause(err)
	default:
		return ErrCarrierUnavailable.WithCause(err)
	}
}
