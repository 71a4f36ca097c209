package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/thu-furniture/thu_api/services/handlers"
	"github.com/thu-furniture/thu_api/shared"
)

type HttpService struct {
	context.DefaultService

	contactSvc *ContactService
	sqlSvc     *PostgresService
	monSvc     *MonitoringService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

// AUTH_SVC lives here rather than in the middleware package so the lookup
// below does not need to import it (middleware already imports services).
const AUTH_SVC = "auth"

// authProvider is whatever registered service hands out the admin auth
// middleware.
type authProvider interface {
	RequiredAuth() fiber.Handler
}

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.contactSvc = svc.Service(CONTACT_SVC).(*ContactService)
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.monSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	auth := svc.Service(AUTH_SVC).(authProvider)

	svc.app = fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: svc.handleError,
	})

	svc.app.Use(recover.New())
	svc.app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	svc.app.Use(MonitoringMiddleware(svc.monSvc))

	contactHandler := handlers.NewContactHandler(svc.contactSvc)
	adminHandler := handlers.NewAdminHandler(svc.sqlSvc)

	svc.app.Get("/ping", svc.ping)

	v1 := svc.app.Group("/api/v1")
	v1.Get("/ping", svc.ping)
	v1.Post("/contact", contactHandler.Submit)

	admin := v1.Group("/admin", auth.RequiredAuth())
	admin.Get("/inquiries", adminHandler.ListInquiries)
	admin.Post("/inquiries/:id/read", adminHandler.MarkRead)

	svc.app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c)
}
