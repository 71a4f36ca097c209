package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/thu-furniture/thu_api/dto"
	"github.com/thu-furniture/thu_api/shared"
)

type mockContactService struct {
	submitFunc func(req dto.ContactRequest, meta dto.RequestMeta) dto.ContactResponse
	lastMeta   dto.RequestMeta
}

func (m *mockContactService) Submit(req dto.ContactRequest, meta dto.RequestMeta) dto.ContactResponse {
	m.lastMeta = meta
	if m.submitFunc != nil {
		return m.submitFunc(req, meta)
	}
	return dto.ContactResponse{Success: true}
}

func newContactTestApp(svc ContactServiceInterface) *fiber.App {
	app := fiber.New()
	handler := NewContactHandler(svc)
	app.Post("/api/v1/contact", handler.Submit)
	return app
}

func postContact(t *testing.T, app *fiber.App, body string, headers map[string]string) (*http.Response, dto.ContactResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var parsed dto.ContactResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, parsed
}

const validContactBody = `{
	"firstName": "Jane",
	"lastName": "Doe",
	"email": "jane@x.com",
	"message": "I love this sofa, please contact me."
}`

func TestContactHandler_Success(t *testing.T) {
	svc := &mockContactService{}
	app := newContactTestApp(svc)

	resp, parsed := postContact(t, app, validContactBody, map[string]string{
		"Origin": "https://thfurniture.com",
	})

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !parsed.Success {
		t.Errorf("expected success response, got error %q", parsed.Error)
	}
	if svc.lastMeta.Origin != "https://thfurniture.com" {
		t.Errorf("origin header not forwarded, got %q", svc.lastMeta.Origin)
	}
}

func TestContactHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		response   dto.ContactResponse
		wantStatus int
	}{
		{"generic rejection", dto.ContactResponse{Success: false, Error: shared.ErrGeneric}, http.StatusBadRequest},
		{"rate limited", dto.ContactResponse{Success: false, Error: shared.ErrRateLimit}, http.StatusTooManyRequests},
		{"server error", dto.ContactResponse{Success: false, Error: shared.ErrServer}, http.StatusInternalServerError},
		{"accepted", dto.ContactResponse{Success: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockContactService{
				submitFunc: func(dto.ContactRequest, dto.RequestMeta) dto.ContactResponse {
					return tt.response
				},
			}
			app := newContactTestApp(svc)

			resp, parsed := postContact(t, app, validContactBody, nil)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if parsed.Success != tt.response.Success {
				t.Errorf("success flag mismatch: got %v", parsed.Success)
			}
			if parsed.Error != tt.response.Error {
				t.Errorf("expected error %q, got %q", tt.response.Error, parsed.Error)
			}
		})
	}
}

func TestContactHandler_MalformedBody(t *testing.T) {
	called := false
	svc := &mockContactService{
		submitFunc: func(dto.ContactRequest, dto.RequestMeta) dto.ContactResponse {
			called = true
			return dto.ContactResponse{}
		},
	}
	app := newContactTestApp(svc)

	resp, parsed := postContact(t, app, `{"firstName": `, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if parsed.Error != shared.ErrGeneric {
		t.Errorf("expected generic error, got %q", parsed.Error)
	}
	if called {
		t.Error("pipeline must not run for an unparseable body")
	}
}

func TestContactHandler_OversizedFieldRejectedAtBoundary(t *testing.T) {
	called := false
	svc := &mockContactService{
		submitFunc: func(dto.ContactRequest, dto.RequestMeta) dto.ContactResponse {
			called = true
			return dto.ContactResponse{}
		},
	}
	app := newContactTestApp(svc)

	body := `{
		"firstName": "` + strings.Repeat("a", 2000) + `",
		"lastName": "Doe",
		"email": "jane@x.com",
		"message": "I love this sofa, please contact me."
	}`

	resp, parsed := postContact(t, app, body, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if parsed.Error != shared.ErrGeneric {
		t.Errorf("expected generic error, got %q", parsed.Error)
	}
	if called {
		t.Error("pipeline must not run for a payload outside gross bounds")
	}
}

func TestContactHandler_ClientIPFromForwardedFor(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{"single address", "203.0.113.7", "203.0.113.7"},
		{"proxy chain keeps first hop", "203.0.113.7, 10.0.0.1, 10.0.0.2", "203.0.113.7"},
		{"absent header shares one bucket", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockContactService{}
			app := newContactTestApp(svc)

			headers := map[string]string{}
			if tt.forwarded != "" {
				headers["X-Forwarded-For"] = tt.forwarded
			}

			_, _ = postContact(t, app, validContactBody, headers)
			if svc.lastMeta.ClientIP != tt.want {
				t.Errorf("expected client IP %q, got %q", tt.want, svc.lastMeta.ClientIP)
			}
		})
	}
}
