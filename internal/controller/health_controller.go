package controller

import (
	"time"

	"medichat/internal/dto"
	"medichat/internal/pkg/serverutils"
	pkgNats "medichat/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	DetailedHealth(ctx *fiber.Ctx) error
}

type healthController struct {
	db       *gorm.DB
	rdb      *redis.Client
	alertBus *pkgNats.Publisher
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, alertBus *pkgNats.Publisher) IHealthController {
	return &healthController{
		db:       db,
		rdb:      rdb,
		alertBus: alertBus,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health")
	h.Get("/", c.Health)
	h.Get("/detailed", c.DetailedHealth)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Service healthy", dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	}))
}

func (c *healthController) DetailedHealth(ctx *fiber.Ctx) error {
	components := map[string]string{
		"database":  "ok",
		"redis":     "ok",
		"alert_bus": "ok",
	}
	status := "ok"

	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(ctx.Context()) != nil {
		components["database"] = "unavailable"
		status = "degraded"
	}

	if c.rdb == nil {
		components["redis"] = "not configured"
	} else if err := c.rdb.Ping(ctx.Context()).Err(); err != nil {
		components["redis"] = "unavailable"
		status = "degraded"
	}

	if c.alertBus == nil {
		components["alert_bus"] = "not configured"
	} else if !c.alertBus.IsConnected() {
		components["alert_bus"] = "unavailable"
		status = "degraded"
	}

	return ctx.JSON(serverutils.SuccessResponse("Service health detail", dto.DetailedHealthResponse{
		Status:     status,
		Components: components,
		Timestamp:  time.Now(),
	}))
}
