package middleware

import (
	"errors"
	"net/http"

	"github.com/engabdalla/portfolio-api/internal/api/constants"
	"github.com/engabdalla/portfolio-api/internal/api/dto/common"
	"github.com/engabdalla/portfolio-api/internal/api/validation"
	"github.com/engabdalla/portfolio-api/internal/logging"
	"github.com/engabdalla/portfolio-api/internal/metrics"
	"github.com/engabdalla/portfolio-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// MsgInvalidJSON is returned when the body cannot be parsed
const MsgInvalidJSON = "Invalid JSON body"

// ValidationMiddleware handles request validation
type ValidationMiddleware struct {
	validator *validation.Validator
	metrics   *metrics.Metrics
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(m *metrics.Metrics) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.New(),
		metrics:   m,
	}
}

// ValidateContactRequest parses and validates a contact submission and
// stores the normalized request under constants.ContextKeyContact
func (m *ValidationMiddleware) ValidateContactRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := RawBody(c)
		if err != nil {
			utils.AbortWithError(c, http.StatusBadRequest, common.ErrCodeBadRequest, "Error reading request body")
			return
		}

		req, prior, err := validation.Decode(bodyBytes)
		if err != nil {
			if !errors.Is(err, validation.ErrInvalidJSON) {
				logging.GetGlobalLogger().Error("Unexpected decode error: %v", err)
			}
			m.metrics.ContactOutcome(metrics.OutcomeInvalid)
			utils.AbortWithError(c, http.StatusBadRequest, common.ErrCodeBadRequest, MsgInvalidJSON)
			return
		}

		if res := m.validator.Validate(req, prior); !res.Valid() {
			m.metrics.ContactOutcome(metrics.OutcomeInvalid)
			utils.AbortWithError(c, http.StatusBadRequest, common.ErrCodeValidation, res.Message())
			return
		}

		c.Set(constants.ContextKeyContact, req)
		c.Next()
	}
}
