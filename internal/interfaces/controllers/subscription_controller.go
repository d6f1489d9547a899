package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storechecker/storechecker/internal/domain/entities"
	"github.com/storechecker/storechecker/internal/usecases/reconcile"
	"github.com/storechecker/storechecker/internal/usecases/subscription"
)

// SubscriptionController handles subscription requests and manual reconciliation
type SubscriptionController struct {
	performJob *subscription.PerformJobUseCase
	reconcile  *reconcile.ReconcileUseCase
}

// NewSubscriptionController creates a new SubscriptionController
func NewSubscriptionController(performJob *subscription.PerformJobUseCase, reconcileUC *reconcile.ReconcileUseCase) *SubscriptionController {
	return &SubscriptionController{
		performJob: performJob,
		reconcile:  reconcileUC,
	}
}

// GetName returns the name of this controller for logging
func (c *SubscriptionController) GetName() string {
	return "SubscriptionController"
}

// ReconcileResponse is the response body of POST /reconcile
type ReconcileResponse struct {
	InvocationID string                    `json:"invocation_id"`
	Saved        bool                      `json:"saved"`
	Products     []reconcile.ProductResult `json:"products"`
}

// Subscribe handles GET /subscribe. Parameters come from the query string or,
// when it has none, from the Referer header.
func (c *SubscriptionController) Subscribe(ctx echo.Context) error {
	req, err := requestFromQuery(ctx)
	if err != nil {
		return toHTTPError(err)
	}
	return c.perform(ctx, req)
}

// SubscribeJSON handles POST /subscribe with a JSON request body. An empty
// body is treated like GET /subscribe.
func (c *SubscriptionController) SubscribeJSON(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}
	if strings.TrimSpace(string(body)) == "" {
		return c.Subscribe(ctx)
	}

	req, err := subscription.DecodeEvent(body)
	if err != nil {
		return toHTTPError(err)
	}
	return c.perform(ctx, req)
}

// ListSubscriptions handles GET /subscriptions/:subscriber. The address may
// be percent-encoded.
func (c *SubscriptionController) ListSubscriptions(ctx echo.Context) error {
	subscriber, err := url.PathUnescape(ctx.Param("subscriber"))
	if err != nil {
		return toHTTPError(entities.NewValidationError("subscriber", "invalid percent-encoding"))
	}
	return c.perform(ctx, &subscription.Request{
		Type:       subscription.RequestTypeCheck,
		Subscriber: subscriber,
	})
}

// Reconcile handles POST /reconcile. ?dry_run=true skips saving.
func (c *SubscriptionController) Reconcile(ctx echo.Context) error {
	dryRun := false
	if v := ctx.QueryParam("dry_run"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "dry_run must be a boolean")
		}
		dryRun = parsed
	}

	resp, err := c.reconcile.Execute(ctx.Request().Context(), &reconcile.ReconcileRequest{
		DryRun:       dryRun,
		InvocationID: requestID(ctx),
	})
	if err != nil {
		return toHTTPError(err)
	}

	products := resp.Report.Products
	if products == nil {
		products = []reconcile.ProductResult{}
	}
	return ctx.JSON(http.StatusOK, &ReconcileResponse{
		InvocationID: resp.InvocationID,
		Saved:        resp.Saved,
		Products:     products,
	})
}

func (c *SubscriptionController) perform(ctx echo.Context, req *subscription.Request) error {
	resp, err := c.performJob.Execute(ctx.Request().Context(), &subscription.PerformJobRequest{
		Request:      req,
		InvocationID: requestID(ctx),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(http.StatusOK, resp.Outcome)
}

func requestFromQuery(ctx echo.Context) (*subscription.Request, error) {
	params := ctx.QueryParams()
	if len(params) > 0 {
		values := make(map[string]string, len(params))
		for key := range params {
			values[key] = params.Get(key)
		}
		return subscription.RequestFromValues(values), nil
	}
	return subscription.RequestFromReferer(ctx.Request().Header.Get("Referer"))
}

func requestID(ctx echo.Context) string {
	if id := ctx.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return ctx.Request().Header.Get(echo.HeaderXRequestID)
}

// toHTTPError maps domain errors to HTTP status codes
func toHTTPError(err error) error {
	var validationErr *entities.ValidationError
	var unknownErr entities.ErrUnknownProduct
	var notFoundErr entities.ErrProductNotFound
	var lookupErr *entities.LookupError

	switch {
	case errors.As(err, &validationErr):
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &unknownErr):
		return echo.NewHTTPError(http.StatusNotFound, unknownErr.Error())
	case errors.As(err, &notFoundErr):
		return echo.NewHTTPError(http.StatusBadGateway, notFoundErr.Error())
	case errors.As(err, &lookupErr):
		log.Printf("[HTTP] Price lookup failed: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Price lookup failed")
	default:
		log.Printf("[HTTP] Request failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
