package domain

import "encoding/json"

// FilterOperator is the comparison the search service applies to a field
type FilterOperator string

const (
	OperatorBetween FilterOperator = "between"
	OperatorEq      FilterOperator = "eq"
	OperatorGt      FilterOperator = "gt"
	OperatorGte     FilterOperator = "gte"
	OperatorLt      FilterOperator = "lt"
	OperatorLte     FilterOperator = "lte"
)

const (
	FieldAnnualTurnover = "annualTurnover"

	DefaultPage = 0
	DefaultSize = 20
)

// FilterQuery is a single condition sent to the search service.
// For range operators Value holds exactly two bounds, lower first.
type FilterQuery struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    []int64        `json:"value"`
}

// SearchRequest is the body POSTed to the search service.
type SearchRequest struct {
	Filters []FilterQuery   `json:"filters"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
	Sort    json.RawMessage `json:"sort,omitempty"`
}

// NewBetweenFilter builds an inclusive range filter on field.
func NewBetweenFilter(field string, min, max int64) FilterQuery {
	return FilterQuery{
		Field:    field,
		Operator: OperatorBetween,
		Value:    []int64{min, max},
	}
}

// TurnoverFilter is a decoded turnover range request. Nil bounds are missing.
type TurnoverFilter struct {
	Min  *int64
	Max  *int64
	Page int
	Size int
}

// UpstreamResult is a successful search service response, kept as raw bytes.
type UpstreamResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
