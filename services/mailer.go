package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/thu-furniture/thu_api/dto"
)

// MailerService delivers inquiry emails through the provider's HTTP API.
// From and To are fixed trusted addresses; the visitor's address only ever
// appears as reply-to, never as sender.
type MailerService struct {
	appContext.DefaultService

	apiKey    string
	baseURL   string
	fromEmail string
	toEmail   string

	httpClient *http.Client

	htmlTemplate *template.Template
}

const MAILER_SVC = "mailer_svc"

// Dispatch is one bounded network call with no retry; past the timeout the
// request is aborted and reported as failure.
const dispatchTimeout = 10 * time.Second

func (svc MailerService) Id() string {
	return MAILER_SVC
}

func (svc *MailerService) Configure(ctx *appContext.Context) error {
	svc.apiKey = os.Getenv("RESEND_API_KEY")

	svc.baseURL = os.Getenv("RESEND_BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "https://api.resend.com"
	}

	svc.fromEmail = os.Getenv("CONTACT_FROM_EMAIL")
	if svc.fromEmail == "" {
		svc.fromEmail = "THU Furniture <inquiries@thfurniture.com>"
	}

	svc.toEmail = os.Getenv("CONTACT_TO_EMAIL")
	if svc.toEmail == "" {
		svc.toEmail = "hello@thfurniture.com"
	}

	svc.httpClient = &http.Client{
		Timeout: dispatchTimeout,
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MailerService) Start() error {
	var err error
	svc.htmlTemplate, err = template.New("inquiry").Parse(inquiryEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse inquiry email template: %v", err)
	}

	if svc.apiKey == "" {
		log.Warn("RESEND_API_KEY not configured, inquiry emails will fail to dispatch")
	}

	return nil
}

// EmailMessage is the provider payload. Built fresh per request and not
// retained after dispatch.
type EmailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	ReplyTo string `json:"reply_to,omitempty"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

const inquiryEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Inquiry - THU Furniture</title>
    <style>
        body { font-family: Georgia, serif; line-height: 1.6; color: #2E2C2A; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2E2C2A; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #F9F7F4; }
        .details { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
        .message { background-color: white; padding: 15px; border-left: 4px solid #A0685F; margin: 15px 0; white-space: pre-wrap; }
        .footer { padding: 20px; text-align: center; color: #9A9890; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Inquiry</h1>
        </div>
        <div class="content">
            <div class="details">
                <strong>Name:</strong> {{.FirstName}} {{.LastName}}<br>
                <strong>Email:</strong> {{.Email}}<br>
                {{if .Phone}}<strong>Phone:</strong> {{.Phone}}<br>{{end}}
                {{if .Product}}<strong>Piece:</strong> {{.Product}}<br>{{end}}
            </div>
            <div class="message">{{.Message}}</div>
            <p>Reply to this email to get back to {{.FirstName}}.</p>
        </div>
        <div class="footer">
            <p>THU Furniture &middot; contact form</p>
        </div>
    </div>
</body>
</html>
`

type inquiryEmailData struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Product   string
	Message   string
}

// SendInquiry builds the operator notification for a sanitized inquiry and
// dispatches it. product is the resolved catalog line, empty when the
// submission carried no product context.
func (svc *MailerService) SendInquiry(inq dto.SanitizedInquiry, product string) error {
	subject := sanitizeSubject(fmt.Sprintf("New inquiry from %s %s", inq.FirstName, inq.LastName))

	text := svc.buildTextBody(inq, product)

	var htmlBody bytes.Buffer
	err := svc.htmlTemplate.Execute(&htmlBody, inquiryEmailData{
		FirstName: inq.FirstName,
		LastName:  inq.LastName,
		Email:     inq.Email,
		Phone:     inq.Phone,
		Product:   product,
		Message:   inq.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to execute inquiry template: %v", err)
	}

	msg := EmailMessage{
		From:    svc.fromEmail,
		To:      svc.toEmail,
		ReplyTo: inq.Email,
		Subject: subject,
		Text:    text,
		HTML:    htmlBody.String(),
	}

	return svc.send(msg)
}

func (svc *MailerService) buildTextBody(inq dto.SanitizedInquiry, product string) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "New inquiry from the contact form\n\n")
	fmt.Fprintf(&b, "Name: %s %s\n", inq.FirstName, inq.LastName)
	fmt.Fprintf(&b, "Email: %s\n", inq.Email)
	if inq.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", inq.Phone)
	}
	if product != "" {
		fmt.Fprintf(&b, "Piece: %s\n", product)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", inq.Message)
	return b.String()
}

func (svc *MailerService) send(msg EmailMessage) error {
	if svc.apiKey == "" {
		return fmt.Errorf("email provider credential not configured")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, svc.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create email request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+svc.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("Email dispatch failed")
		return fmt.Errorf("email dispatch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Provider error details stay server-side only.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.WithFields(log.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("Email provider returned non-success status")
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	log.WithFields(log.Fields{"to": msg.To, "subject": msg.Subject}).Info("Inquiry email dispatched")
	return nil
}
