package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/storefront/backoffice/internal/api/dto"
	"github.com/storefront/backoffice/internal/auth"
	"github.com/storefront/backoffice/internal/repository"
	"github.com/storefront/backoffice/internal/service"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// IdempotencyHeader carries the client supplied key for sale creation.
const IdempotencyHeader = "Idempotency-Key"

// SalesHandler exposes ledger endpoints.
type SalesHandler struct {
	ledger         *service.LedgerService
	queries        *service.SalesQueryService
	idempotency    repository.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// SalesHandlerDependencies bundles the collaborators of SalesHandler.
type SalesHandlerDependencies struct {
	Ledger         *service.LedgerService
	Queries        *service.SalesQueryService
	Idempotency    repository.IdempotencyStore
	IdempotencyTTL time.Duration
	Logger         *zap.Logger
}

// NewSalesHandler constructs handler.
func NewSalesHandler(deps SalesHandlerDependencies) *SalesHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{
		ledger:         deps.Ledger,
		queries:        deps.Queries,
		idempotency:    deps.Idempotency,
		idempotencyTTL: deps.IdempotencyTTL,
		logger:         logger,
	}
}

// Create handles POST /sales/create.
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	var req dto.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := c.UserContext()
	release, err := h.claimIdempotencyKey(ctx, principal.CustomerID, utils.CopyString(c.Get(IdempotencyHeader)))
	if err != nil {
		return err
	}

	input := service.SaleCreateInput{
		Items:    make([]service.SaleLineInput, 0, len(req.Products)),
		SaleDate: req.SaleDate,
	}
	for _, line := range req.Products {
		input.Items = append(input.Items, service.SaleLineInput{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	detail, err := h.ledger.CreateSale(ctx, principal.CustomerID, input)
	if err != nil {
		release()
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewSaleResponse(detail))
}

// claimIdempotencyKey reserves key for the caller. The returned func undoes
// the reservation so a failed sale can be retried with the same key.
func (h *SalesHandler) claimIdempotencyKey(ctx context.Context, subject, key string) (func(), error) {
	if key == "" || h.idempotency == nil {
		return func() {}, nil
	}
	scoped := subject + ":" + key
	claimed, err := h.idempotency.Claim(ctx, scoped, h.idempotencyTTL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !claimed {
		return nil, apperrors.NewConflict("Duplicate request", map[string]any{"idempotencyKey": key})
	}
	return func() {
		// the request context may already be cancelled
		if err := h.idempotency.Release(context.WithoutCancel(ctx), scoped); err != nil {
			h.logger.Warn("release idempotency key", zap.String("key", scoped), zap.Error(err))
		}
	}, nil
}

// ListByMonth handles GET /sales?year=&month=.
func (h *SalesHandler) ListByMonth(c *fiber.Ctx) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return err
	}

	sales, err := h.queries.GetSalesByMonth(c.UserContext(), year, month)
	if err != nil {
		return err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, dto.NewSaleResponse(&sales[i]))
	}
	return c.JSON(items)
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0, apperrors.NewValidationError("Valid year and month (1-12) are required.", map[string]any{key: c.Query(key)})
	}
	return value, nil
}
