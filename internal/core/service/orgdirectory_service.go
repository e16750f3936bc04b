package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fergoeqs/second-service/internal/core/domain"
	"github.com/rs/zerolog"
)

// Forwarder sends a search query to the search service
type Forwarder interface {
	Search(ctx context.Context, body []byte) (*domain.UpstreamResult, error)
}

type OrgDirectoryService struct {
	forwarder Forwarder
	logger    zerolog.Logger
}

func NewOrgDirectoryService(forwarder Forwarder, logger zerolog.Logger) *OrgDirectoryService {
	return &OrgDirectoryService{
		forwarder: forwarder,
		logger:    logger,
	}
}

// FilterByTurnover forwards a between-filter on annualTurnover. Invalid
// ranges are rejected without contacting the search service.
func (s *OrgDirectoryService) FilterByTurnover(ctx context.Context, filter domain.TurnoverFilter) (*domain.UpstreamResult, error) {
	query, err := BuildTurnoverQuery(filter)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	s.logger.Debug().
		Int64("min", *filter.Min).
		Int64("max", *filter.Max).
		Int("page", query.Page).
		Int("size", query.Size).
		Msg("forwarding turnover filter")

	return s.forwarder.Search(ctx, body)
}

// OrderOrganizations forwards the body untouched once it is known to carry
// sort criteria.
func (s *OrgDirectoryService) OrderOrganizations(ctx context.Context, body []byte) (*domain.UpstreamResult, error) {
	query, err := BuildSortQuery(body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("bytes", len(query)).Msg("forwarding sort request")

	return s.forwarder.Search(ctx, query)
}
