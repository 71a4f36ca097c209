package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/thu-furniture/thu_api/dto"
	"github.com/thu-furniture/thu_api/shared"
)

type ContactHandler struct {
	contactSvc ContactServiceInterface
}

func NewContactHandler(contactSvc ContactServiceInterface) *ContactHandler {
	return &ContactHandler{
		contactSvc: contactSvc,
	}
}

// @Summary Submit Contact Inquiry
// @Description This endpoint validates, rate-limits and forwards a contact form submission
// @Tags contact
// @Accept  json
// @Produce json
// @Param contactRequest body dto.ContactRequest true "Contact form payload"
// @Success 200 {object} dto.ContactResponse
// @Router /api/v1/contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ContactResponse{
			Success: false,
			Error:   shared.ErrGeneric,
		})
	}

	// Gross payload bounds only; the pipeline's own checks decide the
	// outcome, so nothing field-specific leaks from here either.
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ContactResponse{
			Success: false,
			Error:   shared.ErrGeneric,
		})
	}

	meta := dto.RequestMeta{
		Origin:   c.Get(fiber.HeaderOrigin),
		ClientIP: clientIPFromRequest(c),
	}

	resp := h.contactSvc.Submit(req, meta)

	return c.Status(statusForResponse(resp)).JSON(resp)
}

func statusForResponse(resp dto.ContactResponse) int {
	if resp.Success {
		return fiber.StatusOK
	}

	switch resp.Error {
	case shared.ErrRateLimit:
		return fiber.StatusTooManyRequests
	case shared.ErrServer:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// clientIPFromRequest takes the first entry of X-Forwarded-For. Everything
// without one lands in a shared "unknown" bucket; proxied clients throttling
// each other there is an accepted limitation.
func clientIPFromRequest(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		ip := strings.TrimSpace(ips[0])
		if ip != "" {
			return ip
		}
	}

	return "unknown"
}
