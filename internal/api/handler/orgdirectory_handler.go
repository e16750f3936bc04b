package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fergoeqs/second-service/internal/adapter/search"
	"github.com/fergoeqs/second-service/internal/api/dto"
	"github.com/fergoeqs/second-service/internal/api/middleware"
	"github.com/fergoeqs/second-service/internal/core/domain"
	"github.com/fergoeqs/second-service/internal/core/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type OrgDirectoryHandler struct {
	orgDirectoryService *service.OrgDirectoryService
	logger              zerolog.Logger
}

func NewOrgDirectoryHandler(orgDirectoryService *service.OrgDirectoryService, logger zerolog.Logger) *OrgDirectoryHandler {
	return &OrgDirectoryHandler{
		orgDirectoryService: orgDirectoryService,
		logger:              logger,
	}
}

// FilterByTurnover handles POST /orgdirectory/filter/turnover
func (h *OrgDirectoryHandler) FilterByTurnover(c *gin.Context) {
	req := dto.NewTurnoverFilterRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, service.NewValidationError(turnoverBindingMessage(err)))
		return
	}

	result, err := h.orgDirectoryService.FilterByTurnover(c.Request.Context(), toTurnoverFilter(req))
	if err != nil {
		h.writeError(c, err)
		return
	}

	relay(c, result)
}

// OrderOrganizations handles POST /orgdirectory/order
func (h *OrgDirectoryHandler) OrderOrganizations(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.writeError(c, service.NewValidationError(service.MsgMalformedBody))
		return
	}

	result, err := h.orgDirectoryService.OrderOrganizations(c.Request.Context(), body)
	if err != nil {
		h.writeError(c, err)
		return
	}

	relay(c, result)
}

// relay writes the search service body back exactly as received
func relay(c *gin.Context, result *domain.UpstreamResult) {
	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(http.StatusOK, contentType, result.Body)
}

func (h *OrgDirectoryHandler) writeError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		c.String(http.StatusBadRequest, vErr.Message)
		return
	}

	requestID := middleware.GetRequestID(c)

	var uErr *search.UpstreamError
	if errors.As(err, &uErr) {
		status := http.StatusBadGateway
		if uErr.Timeout {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, dto.ErrorResponse{
			Error:     http.StatusText(status),
			Message:   uErr.Error(),
			Code:      status,
			RequestID: requestID,
		})
		return
	}

	h.logger.Error().Err(err).Str("request_id", requestID).Msg("unexpected error handling request")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:     "Internal Server Error",
		Message:   "An unexpected error occurred",
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
	})
}

// turnoverBindingMessage maps a decode or binding failure to the message the
// client sees. Problems with page or size are reported as such. A body that
// is not a JSON object is malformed; anything else means the turnover range
// itself is unusable.
func turnoverBindingMessage(err error) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return service.MsgMalformedBody
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "":
			return service.MsgMalformedBody
		case "page", "size":
			return service.MsgInvalidPagination
		}
		return service.MsgInvalidTurnoverRange
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			if fe.StructField() == "MinAnnualTurnover" || fe.StructField() == "MaxAnnualTurnover" {
				return service.MsgInvalidTurnoverRange
			}
		}
		return service.MsgInvalidPagination
	}

	// io.EOF: an empty body carries no bounds
	return service.MsgInvalidTurnoverRange
}

func toTurnoverFilter(req dto.TurnoverFilterRequest) domain.TurnoverFilter {
	return domain.TurnoverFilter{
		Min:  req.MinAnnualTurnover,
		Max:  req.MaxAnnualTurnover,
		Page: req.Page,
		Size: req.Size,
	}
}
