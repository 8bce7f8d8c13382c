package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/movi-app/movi/domains/health"
	"github.com/movi-app/movi/pkg/utils"
)

type Health struct {
	Service health.IHealthUsecase
}

func InitRestHealth(app fiber.Router, service health.IHealthUsecase) Health {
	handler := Health{Service: service}

	group := app.Group("/health")
	group.Get("/status", handler.GetStatus)
	group.Get("/cache", handler.CheckCache)

	return handler
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	records := h.Service.GetStatus(c.UserContext())

	status := fiber.StatusOK
	for _, r := range records {
		if r.Status != health.StatusOk {
			status = fiber.StatusServiceUnavailable
		}
	}

	code := "SUCCESS"
	if status != fiber.StatusOK {
		code = "UNHEALTHY"
	}
	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    code,
		Message: "Health status retrieved",
		Results: records,
	})
}

func (h *Health) CheckCache(c *fiber.Ctx) error {
	record := h.Service.CheckCache(c.UserContext())
	if record.Status != health.StatusOk {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ResponseData{
			Status:  fiber.StatusInternalServerError,
			Code:    "INTERNAL_SERVER_ERROR",
			Message: "Cache connection error",
			Results: record,
		})
	}
	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: record.LastMessage,
		Results: record,
	})
}
