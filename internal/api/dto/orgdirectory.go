package dto

import "github.com/fergoeqs/second-service/internal/core/domain"

// TurnoverFilterRequest is the body of POST /orgdirectory/filter/turnover.
// Page and Size are defaulted before binding, see NewTurnoverFilterRequest.
type TurnoverFilterRequest struct {
	MinAnnualTurnover *int64 `json:"minAnnualTurnover" binding:"required"`
	MaxAnnualTurnover *int64 `json:"maxAnnualTurnover" binding:"required"`
	Page              int    `json:"page" binding:"gte=0"`
	Size              int    `json:"size" binding:"gte=1"`
}

// NewTurnoverFilterRequest returns a request with pagination defaults applied,
// ready to be decoded into.
func NewTurnoverFilterRequest() TurnoverFilterRequest {
	return TurnoverFilterRequest{
		Page: domain.DefaultPage,
		Size: domain.DefaultSize,
	}
}
