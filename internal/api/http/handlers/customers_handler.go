package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/backoffice/internal/api/dto"
	"github.com/storefront/backoffice/internal/service"
	apperrors "github.com/storefront/backoffice/pkg/util/errorutil"
)

// CustomersHandler exposes registration and session endpoints.
type CustomersHandler struct {
	auth *service.AuthService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(authService *service.AuthService) *CustomersHandler {
	return &CustomersHandler{auth: authService}
}

// Register handles POST /customers/create.
func (h *CustomersHandler) Register(c *fiber.Ctx) error {
	var req dto.CustomerRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	customer, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Message:  "Customer registered successfully",
		Customer: dto.CustomerResponse{Name: customer.Name, Email: customer.Email},
	})
}

// Login handles POST /customers/login.
func (h *CustomersHandler) Login(c *fiber.Ctx) error {
	var req dto.CustomerLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{Message: "Login successful", Token: token})
}

// Logout handles POST /customers/logout.
func (h *CustomersHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Logout successful. Please delete the token on client side."})
}
