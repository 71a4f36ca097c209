package dto

import "github.com/thu-furniture/thu_api/model"

type ListInquiriesRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=all unread read"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

func (r ListInquiriesRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ListInquiriesResponse struct {
	Inquiries []*model.Inquiry `json:"inquiries"`
	Total     int64            `json:"total"`
}
