package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"dce-cancel-be/internal/dto"
	"dce-cancel-be/internal/pkg/apperror"
	"dce-cancel-be/internal/pkg/serverutils"
	"dce-cancel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICancellationController interface {
	RegisterRoutes(r fiber.Router)
	Cancel(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
}

type cancellationController struct {
	service  service.ICancellationService
	apiToken string
}

func NewCancellationController(svc service.ICancellationService, apiToken string) ICancellationController {
	return &cancellationController{service: svc, apiToken: apiToken}
}

func (c *cancellationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dce")
	auth := serverutils.AuthTokenMiddleware(c.apiToken)

	h.Post("/cancellations", auth, c.Cancel)
	h.Get("/:id/cancellation", auth, c.GetStatus)
}

func (c *cancellationController) Cancel(ctx *fiber.Ctx) error {
	var req dto.CancelRequest
	parseErr := ctx.BodyParser(&req)

	// clientId comes from the header only; body values are never read for it.
	req.ClientId = ctx.Get("Client-Id")

	if parseErr != nil {
		return bodyParseError(parseErr, &req)
	}

	res, err := c.service.RequestCancellation(ctx.Context(), &req, ctx.Get("X-Correlation-Id"))
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Cancellation received", res))
}

func (c *cancellationController) GetStatus(ctx *fiber.Ctx) error {
	res, err := c.service.GetStatus(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(
			serverutils.ErrorResponse(fiber.StatusNotFound, "no cancellation recorded for this DCe"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Cancellation status", res))
}

// bodyParseError maps JSON decode failures to validation failures. A wrong
// type on a known field is merged with the rule violations still detectable
// on the partially decoded payload, so the caller gets the complete list in
// one response.
func bodyParseError(err error, req *dto.CancelRequest) error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return apperror.NewValidationError("body must be a valid JSON object")
	}

	violations := []string{fmt.Sprintf("%s must be a string", typeErr.Field)}

	// The mistyped field decoded to its zero value; drop its redundant
	// "required" violation and keep the rest.
	var verr *apperror.ValidationError
	if vErr := serverutils.ValidateRequest(req); errors.As(vErr, &verr) {
		for _, v := range verr.Violations {
			if !strings.HasPrefix(v, typeErr.Field+" ") {
				violations = append(violations, v)
			}
		}
	}

	return apperror.NewValidationError(violations...)
}
