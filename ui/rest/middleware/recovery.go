package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/utils"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "an internal error occurred while processing your request"

// Recovery turns a panic raised through utils.PanicIfNeeded into the response
// envelope. GenericError values keep their status and code; anything else is a 500
// whose cause is logged but never sent to the client.
func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			res := utils.ResponseData{
				Status:  fiber.StatusInternalServerError,
				Code:    "INTERNAL_SERVER_ERROR",
				Message: internalErrorMessage,
			}
			log := logrus.WithFields(logrus.Fields{
				"path":       ctx.Path(),
				"method":     ctx.Method(),
				"request_id": ctx.GetRespHeader(fiber.HeaderXRequestID),
			})

			err, isError := recovered.(error)
			if !isError {
				log.Errorf("[REST] panic recovered: %v", recovered)
				_ = ctx.Status(res.Status).JSON(res)
				return
			}

			var queryErr *pkgError.QueryError
			var generic pkgError.GenericError
			switch {
			case errors.As(err, &queryErr):
				log.Error("[REST] " + queryErr.Detail())
				res.Code = queryErr.ErrCode()
				res.Message = queryErr.Error()
			case errors.As(err, &generic):
				res.Status = generic.StatusCode()
				res.Code = generic.ErrCode()
				res.Message = generic.Error()
				if res.Status >= fiber.StatusInternalServerError {
					log.WithError(err).Error("[REST] request failed")
				} else {
					log.WithError(err).Debug("[REST] request rejected")
				}
			default:
				log.WithError(err).Error("[REST] unhandled error")
			}

			_ = ctx.Status(res.Status).JSON(res)
		}()

		return ctx.Next()
	}
}
