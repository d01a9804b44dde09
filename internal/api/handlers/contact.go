package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/engabdalla/portfolio-api/internal/api/constants"
	"github.com/engabdalla/portfolio-api/internal/api/dto/common"
	"github.com/engabdalla/portfolio-api/internal/api/dto/v1/contact"
	"github.com/engabdalla/portfolio-api/internal/mailer"
	"github.com/engabdalla/portfolio-api/internal/middleware"
	"github.com/engabdalla/portfolio-api/internal/service"
	"github.com/engabdalla/portfolio-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// ContactSubmitter is the part of the contact service the handler needs
type ContactSubmitter interface {
	Submit(ctx context.Context, req *contact.ContactRequest, meta mailer.Meta) (*service.Result, error)
}

type ContactHandler struct {
	contactService ContactSubmitter
}

func NewContactHandler(contactService ContactSubmitter) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// Submit handles POST /api/contact. The request has already passed rate
// limiting and validation.
func (h *ContactHandler) Submit(c *gin.Context) {
	// Get contact data from context (set by validation middleware)
	contactData, exists := c.Get(constants.ContextKeyContact)
	if !exists {
		utils.HandleAPIError(c, errors.New("contact request missing from context"),
			http.StatusInternalServerError, common.ErrCodeInternalServer, middleware.MsgUnexpected)
		return
	}
	req, ok := contactData.(*contact.ContactRequest)
	if !ok {
		utils.HandleAPIError(c, errors.New("unexpected contact request type"),
			http.StatusInternalServerError, common.ErrCodeInternalServer, middleware.MsgUnexpected)
		return
	}

	meta := mailer.Meta{
		IP:        clientIP(c),
		UserAgent: utils.SanitizeHeader(c.Request.UserAgent()),
	}

	result, err := h.contactService.Submit(c.Request.Context(), req, meta)
	switch {
	case err == nil:
		utils.HandleMessage(c, result.Message)
	case errors.Is(err, service.ErrNotConfigured):
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeNotConfigured, service.MsgNotConfigured)
	case errors.Is(err, service.ErrDelivery):
		utils.HandleAPIError(c, err, http.StatusBadGateway, common.ErrCodeUpstream, service.MsgDeliveryError)
	default:
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, middleware.MsgUnexpected)
	}
}

// clientIP prefers the address resolved by the rate limiter
func clientIP(c *gin.Context) string {
	if ip := c.GetString(constants.ContextKeyClientIP); ip != "" {
		return ip
	}
	return utils.ForwardedIP(c.Request.Header)
}
