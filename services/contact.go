package services

import (
	"os"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/thu-furniture/thu_api/dto"
	"github.com/thu-furniture/thu_api/model"
	"github.com/thu-furniture/thu_api/shared"
)

// Collaborators the pipeline talks to, kept narrow so each can be stubbed in
// tests.
type inquiryMailer interface {
	SendInquiry(inq dto.SanitizedInquiry, product string) error
}

type productResolver interface {
	Resolve(slug string) (model.Product, bool)
}

type inquiryArchiver interface {
	SaveInquiry(inquiry *model.Inquiry) error
}

// ContactService runs a contact submission through origin check, rate limit,
// honeypot, sanitation, validation and dispatch. Every rejection collapses
// into one of three fixed visitor-facing strings; which check failed stays
// server-side.
type ContactService struct {
	appContext.DefaultService

	allowedOrigins map[string]bool

	limiter ContactLimiter
	mailer  inquiryMailer
	catalog productResolver
	archive inquiryArchiver
	monSvc  *MonitoringService
}

const CONTACT_SVC = "contact_svc"

const (
	outcomeAccepted         = "accepted"
	outcomeHoneypot         = "honeypot"
	outcomeOriginRejected   = "origin_rejected"
	outcomeRateLimited      = "rate_limited"
	outcomeValidationFailed = "validation_failed"
	outcomeServerError      = "server_error"
)

func (svc ContactService) Id() string {
	return CONTACT_SVC
}

func (svc *ContactService) Configure(ctx *appContext.Context) error {
	svc.allowedOrigins = make(map[string]bool)

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "https://thfurniture.com,https://www.thfurniture.com"
	}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			svc.allowedOrigins[origin] = true
		}
	}

	if os.Getenv("APP_ENV") != "production" {
		svc.allowedOrigins["http://localhost:3000"] = true
		svc.allowedOrigins["http://localhost:5173"] = true
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *ContactService) Start() error {
	svc.limiter = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.mailer = svc.Service(MAILER_SVC).(*MailerService)
	svc.catalog = svc.Service(CATALOG_SVC).(*CatalogService)
	svc.archive = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.monSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// Submit runs the full pipeline for one submission. It always returns a
// well-formed response; the only side effects are the rate-limit counter and,
// on success, one dispatched email plus an archive row.
func (svc *ContactService) Submit(req dto.ContactRequest, meta dto.RequestMeta) dto.ContactResponse {
	// Origin gate runs before anything else; a cross-site post never reaches
	// the rate limiter or sanitizer. Missing origin fails closed.
	if !svc.allowedOrigins[meta.Origin] {
		log.WithField("origin", meta.Origin).Warn("Contact submission from disallowed origin")
		return svc.reject(outcomeOriginRejected, shared.ErrGeneric)
	}

	allowed, _, err := svc.limiter.Allow(meta.ClientIP)
	if err != nil {
		// The limiter is an abuse deterrent, not a security boundary; a store
		// failure should not take the form down with it.
		log.WithError(err).WithField("ip", meta.ClientIP).Error("Rate limit check failed, allowing request")
	} else if !allowed {
		log.WithField("ip", meta.ClientIP).Warn("Contact submission rate limited")
		return svc.reject(outcomeRateLimited, shared.ErrRateLimit)
	}

	// Honeypot: bots that filled the invisible field get a success response
	// and nothing else. No signal distinguishes this from a real acceptance.
	if req.Website != "" {
		log.WithField("ip", meta.ClientIP).Info("Honeypot triggered, dropping submission")
		svc.record(outcomeHoneypot)
		return dto.ContactResponse{Success: true}
	}

	// Required keys must be present in the payload, not merely non-empty.
	if req.FirstName == nil || req.LastName == nil || req.Email == nil || req.Message == nil {
		return svc.reject(outcomeValidationFailed, shared.ErrGeneric)
	}

	inquiry := dto.SanitizedInquiry{
		FirstName:      sanitizeText(*req.FirstName),
		LastName:       sanitizeText(*req.LastName),
		Email:          sanitizeEmail(*req.Email),
		Phone:          normalizePhone(req.PhoneCode + req.PhoneNumber),
		Message:        sanitizeText(*req.Message),
		ProductContext: sanitizeText(req.ProductContext),
	}

	// All predicates run; the response never says which one failed.
	valid := isValidName(inquiry.FirstName)
	valid = isValidName(inquiry.LastName) && valid
	valid = isValidEmail(inquiry.Email) && valid
	valid = isValidPhone(inquiry.Phone) && valid
	valid = isValidMessage(inquiry.Message) && valid
	if !valid {
		return svc.reject(outcomeValidationFailed, shared.ErrGeneric)
	}

	product := svc.resolveProduct(inquiry.ProductContext)

	start := time.Now()
	if err := svc.mailer.SendInquiry(inquiry, product); err != nil {
		log.WithError(err).Error("Inquiry dispatch failed")
		svc.observeDispatch(time.Since(start), false)
		return svc.reject(outcomeServerError, shared.ErrServer)
	}
	svc.observeDispatch(time.Since(start), true)

	svc.archiveInquiry(inquiry)
	svc.record(outcomeAccepted)

	return dto.ContactResponse{Success: true}
}

func (svc *ContactService) resolveProduct(context string) string {
	if context == "" {
		return ""
	}

	product, ok := svc.catalog.Resolve(context)
	if !ok {
		return context
	}

	if product.CustomMade {
		return product.Name + " (Custom Made)"
	}
	return product.Name
}

// archiveInquiry stores a copy of a dispatched inquiry. The email already
// went out, so a storage failure is logged and swallowed.
func (svc *ContactService) archiveInquiry(inq dto.SanitizedInquiry) {
	if svc.archive == nil {
		return
	}

	now := time.Now().UTC()
	record := &model.Inquiry{
		ID:             uuid.NewString(),
		FirstName:      inq.FirstName,
		LastName:       inq.LastName,
		Email:          inq.Email,
		Phone:          inq.Phone,
		Message:        inq.Message,
		ProductContext: inq.ProductContext,
		Status:         shared.InquiryStatusUnread,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := svc.archive.SaveInquiry(record); err != nil {
		log.WithError(err).WithField("inquiry_id", record.ID).Error("Failed to archive inquiry")
	}
}

func (svc *ContactService) reject(outcome, message string) dto.ContactResponse {
	svc.record(outcome)
	return dto.ContactResponse{Success: false, Error: message}
}

func (svc *ContactService) record(outcome string) {
	if svc.monSvc != nil {
		svc.monSvc.RecordSubmission(outcome)
	}
}

func (svc *ContactService) observeDispatch(d time.Duration, success bool) {
	if svc.monSvc != nil {
		svc.monSvc.RecordDispatch(d, success)
	}
}
