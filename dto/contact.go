package dto

// ContactRequest is the raw contact form payload. The required fields are
// pointers so a missing key can be told apart from an empty string; the
// pipeline treats a missing key as a malformed submission.
type ContactRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,max=1000"`
	LastName       *string `json:"lastName" validate:"omitempty,max=1000"`
	Email          *string `json:"email" validate:"omitempty,max=1000"`
	PhoneCode      string  `json:"phoneCode" validate:"omitempty,max=20"`
	PhoneNumber    string  `json:"phoneNumber" validate:"omitempty,max=100"`
	Message        *string `json:"message" validate:"omitempty,max=20000"`
	ProductContext string  `json:"productContext" validate:"omitempty,max=1000"`

	// Website is the honeypot field. Humans never see it; bots fill it.
	Website string `json:"website" validate:"omitempty,max=2000"`
}

func (r ContactRequest) Validate() error {
	return GetValidator().Struct(r)
}

// RequestMeta carries the request headers the pipeline inspects. ClientIP is
// already resolved by the transport layer ("unknown" when unresolvable).
type RequestMeta struct {
	Origin   string
	ClientIP string
}

// ContactResponse is the result contract returned to the form UI.
type ContactResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SanitizedInquiry is the cleaned, validated form of a submission. It only
// exists for the lifetime of the request.
type SanitizedInquiry struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Message        string
	ProductContext string
}
