package services

import (
	"errors"
	"testing"

	"github.com/thu-furniture/thu_api/dto"
	"github.com/thu-furniture/thu_api/model"
	"github.com/thu-furniture/thu_api/shared"
)

// ---------------------------------------------------------------------------
// Stub collaborators
// ---------------------------------------------------------------------------

type stubLimiter struct {
	calls   int
	allowed bool
	err     error
}

func (s *stubLimiter) Allow(identifier string) (bool, *dto.RateLimitInfo, error) {
	s.calls++
	if s.err != nil {
		return false, nil, s.err
	}
	return s.allowed, &dto.RateLimitInfo{Allowed: s.allowed}, nil
}

type stubMailer struct {
	calls   int
	lastInq dto.SanitizedInquiry
	product string
	err     error
}

func (s *stubMailer) SendInquiry(inq dto.SanitizedInquiry, product string) error {
	s.calls++
	s.lastInq = inq
	s.product = product
	return s.err
}

type stubCatalog struct{}

func (stubCatalog) Resolve(slug string) (model.Product, bool) {
	if slug == "elizabeth_sofa" {
		return model.Product{Slug: slug, Name: "Elizabeth Sofa", Category: "sofas"}, true
	}
	if slug == "enzo_bed" {
		return model.Product{Slug: slug, Name: "The Enzo Bed", CustomMade: true}, true
	}
	return model.Product{}, false
}

type stubArchive struct {
	saved []*model.Inquiry
	err   error
}

func (s *stubArchive) SaveInquiry(inquiry *model.Inquiry) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, inquiry)
	return nil
}

func newTestContactService(limiter *stubLimiter, mailer *stubMailer, archive *stubArchive) *ContactService {
	svc := &ContactService{
		allowedOrigins: map[string]bool{
			"https://thfurniture.com":     true,
			"https://www.thfurniture.com": true,
		},
		limiter: limiter,
		mailer:  mailer,
		catalog: stubCatalog{},
	}
	if archive != nil {
		svc.archive = archive
	}
	return svc
}

func str(s string) *string { return &s }

func validRequest() dto.ContactRequest {
	return dto.ContactRequest{
		FirstName: str("Jane"),
		LastName:  str("Doe"),
		Email:     str("jane@x.com"),
		Message:   str("I love this sofa, please contact me."),
	}
}

func validMeta() dto.RequestMeta {
	return dto.RequestMeta{
		Origin:   "https://thfurniture.com",
		ClientIP: "203.0.113.7",
	}
}

// ---------------------------------------------------------------------------
// Pipeline stage tests
// ---------------------------------------------------------------------------

func TestSubmit_Success(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	mailer := &stubMailer{}
	svc := newTestContactService(limiter, mailer, nil)

	resp := svc.Submit(validRequest(), validMeta())

	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
	if mailer.calls != 1 {
		t.Errorf("expected exactly one dispatch, got %d", mailer.calls)
	}
	if mailer.lastInq.Email != "jane@x.com" {
		t.Errorf("unexpected sanitized email: %q", mailer.lastInq.Email)
	}
}

func TestSubmit_ProviderFailureReturnsServerError(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	mailer := &stubMailer{err: errors.New("provider returned status 500")}
	svc := newTestContactService(limiter, mailer, nil)

	resp := svc.Submit(validRequest(), validMeta())

	if resp.Success {
		t.Fatal("expected failure when provider errors")
	}
	if resp.Error != shared.ErrServer {
		t.Errorf("expected server error string, got %q", resp.Error)
	}
}

func TestSubmit_OriginOutsideAllowList(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	mailer := &stubMailer{}
	svc := newTestContactService(limiter, mailer, nil)

	meta := validMeta()
	meta.Origin = "https://evil.example.com"
	resp := svc.Submit(validRequest(), meta)

	if resp.Success {
		t.Fatal("expected rejection")
	}
	if resp.Error != shared.ErrGeneric {
		t.Errorf("expected generic error, got %q", resp.Error)
	}
	if limiter.calls != 0 {
		t.Error("rate limiter must not be consulted for a rejected origin")
	}
	if mailer.calls != 0 {
		t.Error("no dispatch for a rejected origin")
	}
}

func TestSubmit_MissingOriginFailsClosed(t *testing.T) {
	svc := newTestContactService(&stubLimiter{allowed: true}, &stubMailer{}, nil)

	meta := validMeta()
	meta.Origin = ""
	resp := svc.Submit(validRequest(), meta)

	if resp.Success {
		t.Fatal("missing origin must be rejected")
	}
	if resp.Error != shared.ErrGeneric {
		t.Errorf("expected generic error, got %q", resp.Error)
	}
}

func TestSubmit_RateLimited(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	mailer := &stubMailer{}
	svc := newTestContactService(limiter, mailer, nil)

	resp := svc.Submit(validRequest(), validMeta())

	if resp.Success {
		t.Fatal("expected rejection")
	}
	if resp.Error != shared.ErrRateLimit {
		t.Errorf("expected rate limit error, got %q", resp.Error)
	}
	if mailer.calls != 0 {
		t.Error("no dispatch for a rate-limited request")
	}
}

func TestSubmit_LimiterErrorFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("store unavailable")}
	mailer := &stubMailer{}
	svc := newTestContactService(limiter, mailer, nil)

	resp := svc.Submit(validRequest(), validMeta())

	if !resp.Success {
		t.Errorf("a limiter failure must not block real submissions, got %q", resp.Error)
	}
}

func TestSubmit_HoneypotReturnsFakeSuccess(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	mailer := &stubMailer{}
	svc := newTestContactService(limiter, mailer, nil)

	req := validRequest()
	req.Website = "http://spam.example.com"
	resp := svc.Submit(req, validMeta())

	if !resp.Success {
		t.Fatal("honeypot submissions must look successful")
	}
	if resp.Error != "" {
		t.Errorf("honeypot response must carry no error, got %q", resp.Error)
	}
	if mailer.calls != 0 {
		t.Error("honeypot submissions must never dispatch email")
	}
}

func TestSubmit_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.ContactRequest)
	}{
		{"missing first name", func(r *dto.ContactRequest) { r.FirstName = nil }},
		{"missing last name", func(r *dto.ContactRequest) { r.LastName = nil }},
		{"missing email", func(r *dto.ContactRequest) { r.Email = nil }},
		{"missing message", func(r *dto.ContactRequest) { r.Message = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &stubMailer{}
			svc := newTestContactService(&stubLimiter{allowed: true}, mailer, nil)

			req := validRequest()
			tt.mutate(&req)
			resp := svc.Submit(req, validMeta())

			if resp.Success {
				t.Fatal("expected rejection")
			}
			if resp.Error != shared.ErrGeneric {
				t.Errorf("expected generic error, got %q", resp.Error)
			}
			if mailer.calls != 0 {
				t.Error("no dispatch for an incomplete payload")
			}
		})
	}
}

func TestSubmit_ValidationFailuresCollapseToGenericError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.ContactRequest)
	}{
		{"empty first name after sanitization", func(r *dto.ContactRequest) { r.FirstName = str("<b></b>") }},
		{"bad email", func(r *dto.ContactRequest) { r.Email = str("jane@") }},
		{"message too short", func(r *dto.ContactRequest) { r.Message = str("too short") }},
		{"phone too long", func(r *dto.ContactRequest) { r.PhoneNumber = "123456789012345678901234" }},
		{"digit-free phone", func(r *dto.ContactRequest) { r.PhoneNumber = "call me maybe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestContactService(&stubLimiter{allowed: true}, &stubMailer{}, nil)

			req := validRequest()
			tt.mutate(&req)
			resp := svc.Submit(req, validMeta())

			if resp.Success {
				t.Fatal("expected rejection")
			}
			if resp.Error != shared.ErrGeneric {
				t.Errorf("expected the one generic error, got %q", resp.Error)
			}
		})
	}
}

func TestSubmit_SanitizesBeforeDispatch(t *testing.T) {
	mailer := &stubMailer{}
	svc := newTestContactService(&stubLimiter{allowed: true}, mailer, nil)

	req := validRequest()
	req.FirstName = str("<script>alert(1)</script>John")
	req.PhoneCode = "+1"
	req.PhoneNumber = " (555) 000-0000"
	resp := svc.Submit(req, validMeta())

	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if mailer.lastInq.FirstName != "John" {
		t.Errorf("expected sanitized first name %q, got %q", "John", mailer.lastInq.FirstName)
	}
	if mailer.lastInq.Phone != "+15550000000" {
		t.Errorf("expected normalized phone, got %q", mailer.lastInq.Phone)
	}
}

func TestSubmit_ResolvesProductContext(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    string
	}{
		{"catalog product", "elizabeth_sofa", "Elizabeth Sofa"},
		{"custom made product", "enzo_bed", "The Enzo Bed (Custom Made)"},
		{"unknown slug passes through", "mystery_piece", "mystery_piece"},
		{"no context", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &stubMailer{}
			svc := newTestContactService(&stubLimiter{allowed: true}, mailer, nil)

			req := validRequest()
			req.ProductContext = tt.context
			resp := svc.Submit(req, validMeta())

			if !resp.Success {
				t.Fatalf("expected success, got %q", resp.Error)
			}
			if mailer.product != tt.want {
				t.Errorf("expected product %q, got %q", tt.want, mailer.product)
			}
		})
	}
}

func TestSubmit_ArchivesOnSuccessOnly(t *testing.T) {
	archive := &stubArchive{}
	mailer := &stubMailer{}
	svc := newTestContactService(&stubLimiter{allowed: true}, mailer, archive)

	resp := svc.Submit(validRequest(), validMeta())
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if len(archive.saved) != 1 {
		t.Fatalf("expected one archived inquiry, got %d", len(archive.saved))
	}
	saved := archive.saved[0]
	if saved.Status != shared.InquiryStatusUnread {
		t.Errorf("expected unread status, got %q", saved.Status)
	}
	if saved.ID == "" {
		t.Error("archived inquiry must carry an ID")
	}

	// Failed dispatch: nothing archived.
	mailer.err = errors.New("provider down")
	_ = svc.Submit(validRequest(), validMeta())
	if len(archive.saved) != 1 {
		t.Errorf("failed dispatch must not be archived, got %d records", len(archive.saved))
	}
}

func TestSubmit_ArchiveFailureDoesNotFailSubmission(t *testing.T) {
	archive := &stubArchive{err: errors.New("database unavailable")}
	svc := newTestContactService(&stubLimiter{allowed: true}, &stubMailer{}, archive)

	resp := svc.Submit(validRequest(), validMeta())
	if !resp.Success {
		t.Errorf("the email went out; an archive failure must not surface, got %q", resp.Error)
	}
}
