package handlers

import (
	"github.com/thu-furniture/thu_api/dto"
	"github.com/thu-furniture/thu_api/model"
)

type ContactServiceInterface interface {
	Submit(req dto.ContactRequest, meta dto.RequestMeta) dto.ContactResponse
}

type InquiryStoreInterface interface {
	ListInquiries(status string, limit, offset int) ([]*model.Inquiry, int64, error)
	MarkInquiryRead(id string) error
}
