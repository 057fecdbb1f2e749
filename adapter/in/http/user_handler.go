package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/asidlare/todos/core/port/in"
	"github.com/asidlare/todos/pkg/apperr"
	"github.com/asidlare/todos/pkg/response"
)

// UserHandler handles account and session endpoints
type UserHandler struct {
	service in.AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service in.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPublic registers the unauthenticated routes
func (h *UserHandler) RegisterPublic(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
}

// RegisterProtected registers the authenticated routes
func (h *UserHandler) RegisterProtected(router fiber.Router) {
	router.Post("/auth/logout", h.Logout)

	me := router.Group("/users/me")
	me.Get("/", h.Me)
	me.Patch("/", h.Update)
	me.Delete("/", h.Delete)
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req in.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	user, err := h.service.Register(c.Context(), &req)
	if err != nil {
		return domainError(err)
	}
	return response.Created(c, user)
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.Login == "" || req.Password == "" {
		return apperr.MissingField("login/password")
	}

	resp, err := h.service.Login(c.Context(), req.Login, req.Password)
	if err != nil {
		// Do not leak whether the login exists.
		return apperr.Unauthorized("invalid credentials")
	}
	return response.OK(c, resp)
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals("token_id").(string)
	if err := h.service.Logout(c.Context(), tokenID); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return apperr.Unauthorized("")
	}

	user, err := h.service.GetUser(c.Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return response.OK(c, user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return apperr.Unauthorized("")
	}

	var req in.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	if err := h.service.UpdateUser(c.Context(), userID, &req); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return apperr.Unauthorized("")
	}

	if err := h.service.DeleteUser(c.Context(), userID); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}
