package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/award-search-crawler/internal/app/dto"
)

type AwardService interface {
	SearchAwards(ctx context.Context, req dto.AwardSearchRequest) (dto.AwardSearchResponse, error)
	ListCarriers(ctx context.Context) (dto.CarriersResponse, error)
}

type AwardEndpoint struct {
	SearchAwards endpoint.Endpoint
	ListCarriers endpoint.Endpoint
}

func MakeAwardEndpoint(service AwardService) AwardEndpoint {
	return AwardEndpoint{
		SearchAwards: makeSearchAwardsEndpoint(service),
		ListCarriers: makeListCarriersEndpoint(service),
	}
}

func makeSearchAwardsEndpoint(service AwardService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.AwardSearchRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		awards, err := service.SearchAwards(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("award service: %w", err)
		}

		return awards, nil
	}
}

func makeListCarriersEndpoint(service AwardService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		carriers, err := service.ListCarriers(ctx)
		if err != nil {
			return nil, fmt.Errorf("award service: %w", err)
		}

		return carriers, nil
	}
}
