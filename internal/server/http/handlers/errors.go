package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/adapter/oracle"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrInvalidMessage, http.StatusUnprocessableEntity, "invalid_message"},
	{domainErrors.ErrOracleDisabled, http.StatusUnprocessableEntity, "extraction_required"},
	{domainErrors.ErrOracleUnavailable, http.StatusBadGateway, "oracle_unavailable"},
	{domainErrors.ErrPersistenceConflict, http.StatusConflict, "conflict"},
	{domainErrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domainErrors.ErrValidatorRequired, http.StatusUnprocessableEntity, "validator_required"},
	{domainErrors.ErrReasonRequired, http.StatusUnprocessableEntity, "reason_required"},
}

// abortWithError maps err to a status code and a JSON error body.
func abortWithError(c *gin.Context, err error) {
	var tooMany oracle.TooManyRequestsError
	if errors.As(err, &tooMany) {
		c.Header("Retry-After", strconv.Itoa(int(tooMany.RetryAfter.Seconds())))
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.AbortWithStatusJSON(m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()})
			return
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "internal", Message: "internal error"})
}

func abortBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Code: "bad_request", Message: msg})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortBadRequest(c, "invalid order id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		abortBadRequest(c, "invalid "+key)
		return 0, false
	}
	return v, true
}
