package service

import (
	"bytes"
	"encoding/json"

	"github.com/fergoeqs/second-service/internal/core/domain"
)

// BuildTurnoverQuery validates a turnover range and turns it into a search
// request with a single between filter on annualTurnover.
func BuildTurnoverQuery(f domain.TurnoverFilter) (*domain.SearchRequest, error) {
	if f.Min == nil || f.Max == nil || *f.Min > *f.Max {
		return nil, NewValidationError(MsgInvalidTurnoverRange)
	}

	if f.Page < 0 || f.Size < 1 {
		return nil, NewValidationError(MsgInvalidPagination)
	}

	return &domain.SearchRequest{
		Filters: []domain.FilterQuery{
			domain.NewBetweenFilter(domain.FieldAnnualTurnover, *f.Min, *f.Max),
		},
		Page: f.Page,
		Size: f.Size,
	}, nil
}

// BuildSortQuery checks that body is a JSON object carrying a sort key and
// returns it unchanged. The search service already understands its shape.
func BuildSortQuery(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, NewValidationError(MsgMalformedBody)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, NewValidationError(MsgMalformedBody)
	}

	if _, ok := fields["sort"]; !ok {
		return nil, NewValidationError(MsgMissingSort)
	}

	return body, nil
}
