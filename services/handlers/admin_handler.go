package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thu-furniture/thu_api/dto"
	"github.com/thu-furniture/thu_api/model"
	"github.com/thu-furniture/thu_api/shared"
)

type AdminHandler struct {
	inquiryStore InquiryStoreInterface
}

func NewAdminHandler(inquiryStore InquiryStoreInterface) *AdminHandler {
	return &AdminHandler{
		inquiryStore: inquiryStore,
	}
}

// @Summary List Inquiries
// @Description This endpoint lists archived contact inquiries with optional status filtering
// @Tags admin
// @Accept  json
// @Produce json
// @Param status query string false "Filter by status (all/unread/read)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} shared.Response{data=dto.ListInquiriesResponse}
// @Router /api/v1/admin/inquiries [get]
func (h *AdminHandler) ListInquiries(c *fiber.Ctx) error {
	var req dto.ListInquiriesRequest
	if err := c.QueryParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid query parameters")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	inquiries, total, err := h.inquiryStore.ListInquiries(req.Status, req.Limit, req.Offset)
	if err != nil {
		return err
	}

	if inquiries == nil {
		inquiries = []*model.Inquiry{}
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.ListInquiriesResponse{
		Inquiries: inquiries,
		Total:     total,
	})
}

// @Summary Mark Inquiry Read
// @Description This endpoint marks an archived inquiry as read
// @Tags admin
// @Accept  json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200
// @Router /api/v1/admin/inquiries/{id}/read [post]
func (h *AdminHandler) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return shared.NewBadRequestError(nil, "Missing inquiry ID")
	}

	if err := h.inquiryStore.MarkInquiryRead(id); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
