package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/in"
	"github.com/asidlare/todos/pkg/apperr"
	"github.com/asidlare/todos/pkg/response"
)

// TodoListHandler handles HTTP requests for todolist operations
type TodoListHandler struct {
	service in.TodoListService
}

// NewTodoListHandler creates a new TodoListHandler
func NewTodoListHandler(service in.TodoListService) *TodoListHandler {
	return &TodoListHandler{service: service}
}

// Register registers todolist routes
func (h *TodoListHandler) Register(router fiber.Router) {
	lists := router.Group("/todolists")

	lists.Get("/", h.List)
	lists.Post("/", h.Create)
	lists.Get("/:todolist_id", h.Get)
	lists.Patch("/:todolist_id", h.Update)
	lists.Delete("/:todolist_id", h.Delete)

	lists.Get("/:todolist_id/members", h.Members)
	lists.Put("/:todolist_id/permissions", h.SetPermissions)
}

// List returns every todolist the caller holds a role on, narrowed by the
// label/status/priority query filters, in canonical order.
func (h *TodoListHandler) List(c *fiber.Ctx) error {
	var filter domain.TodoListFilter
	if label := c.Query("label"); label != "" {
		filter.Label = &label
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseTodoListStatus(raw)
		if err != nil {
			return apperr.InvalidInput("status", err.Error())
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := domain.ParsePriority(raw)
		if err != nil {
			return apperr.InvalidInput("priority", err.Error())
		}
		filter.Priority = &priority
	}

	views, err := h.service.ListTodoLists(c.Context(), actorFromCtx(c), nil, filter)
	if err != nil {
		return domainError(err)
	}
	return response.OKWithMeta(c, views, &response.Meta{Total: len(views)})
}

func (h *TodoListHandler) Get(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}

	views, err := h.service.ListTodoLists(c.Context(), actorFromCtx(c), &todolistID, domain.TodoListFilter{})
	if err != nil {
		return domainError(err)
	}
	return response.OK(c, views[0])
}

func (h *TodoListHandler) Create(c *fiber.Ctx) error {
	var req in.CreateTodoListRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	view, err := h.service.CreateTodoList(c.Context(), actorFromCtx(c), &req)
	if err != nil {
		return domainError(err)
	}
	return response.Created(c, view)
}

func (h *TodoListHandler) Update(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}

	var req in.UpdateTodoListRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	if err := h.service.UpdateTodoList(c.Context(), actorFromCtx(c), todolistID, &req); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}

func (h *TodoListHandler) Delete(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteTodoList(c.Context(), actorFromCtx(c), todolistID); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}

func (h *TodoListHandler) Members(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}

	members, err := h.service.Members(c.Context(), actorFromCtx(c), todolistID)
	if err != nil {
		return domainError(err)
	}
	return response.OKWithMeta(c, members, &response.Meta{Total: len(members)})
}

// SetPermissions grants, changes or removes (empty role) the target user's
// role. Granting owner hands the todolist over.
func (h *TodoListHandler) SetPermissions(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}

	var req in.SetPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	if err := h.service.SetPermissions(c.Context(), actorFromCtx(c), todolistID, &req); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}
