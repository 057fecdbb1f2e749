package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/asidlare/todos/core/port/in"
	"github.com/asidlare/todos/pkg/apperr"
	"github.com/asidlare/todos/pkg/response"
)

// TaskHandler handles HTTP requests for task-tree operations
type TaskHandler struct {
	service in.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service in.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Register registers task routes
func (h *TaskHandler) Register(router fiber.Router) {
	tasks := router.Group("/todolists/:todolist_id/tasks")

	tasks.Get("/", h.List)
	tasks.Post("/", h.Create)
	tasks.Patch("/:task_id", h.Update)
	tasks.Delete("/:task_id", h.Delete)

	tasks.Post("/purge", h.Purge)
	tasks.Post("/:task_id/reparent", h.Reparent)
	tasks.Get("/:task_id/can-reparent", h.CanReparent)
}

// List returns roots or, with expand=true, the whole forest in depth-first
// order. With task_id it returns that task's children or descendants.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}

	var taskID *uuid.UUID
	if raw := c.Query("task_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.InvalidInput("task_id", "must be a UUID")
		}
		taskID = &id
	}
	expand := c.QueryBool("expand", false)

	views, err := h.service.ListTasks(c.Context(), actorFromCtx(c), todolistID, expand, taskID)
	if err != nil {
		return domainError(err)
	}
	return response.OKWithMeta(c, views, &response.Meta{Total: len(views)})
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}

	var req in.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	view, err := h.service.CreateTask(c.Context(), actorFromCtx(c), todolistID, &req)
	if err != nil {
		return domainError(err)
	}
	return response.Created(c, view)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}
	taskID, err := parseUUIDParam(c, "task_id")
	if err != nil {
		return err
	}

	var req in.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	if err := h.service.UpdateTask(c.Context(), actorFromCtx(c), todolistID, taskID, &req); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}
	taskID, err := parseUUIDParam(c, "task_id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteTask(c.Context(), actorFromCtx(c), todolistID, taskID); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}

// Purge removes every done task whose whole subtree is done.
func (h *TaskHandler) Purge(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}

	if err := h.service.PurgeTasks(c.Context(), actorFromCtx(c), todolistID); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}

type reparentRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

func (h *TaskHandler) Reparent(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}
	taskID, err := parseUUIDParam(c, "task_id")
	if err != nil {
		return err
	}

	var req reparentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	if err := h.service.ReparentTask(c.Context(), actorFromCtx(c), todolistID, taskID, req.ParentID); err != nil {
		return domainError(err)
	}
	return response.NoContent(c)
}

func (h *TaskHandler) CanReparent(c *fiber.Ctx) error {
	todolistID, err := parseUUIDParam(c, "todolist_id")
	if err != nil {
		return err
	}
	taskID, err := parseUUIDParam(c, "task_id")
	if err != nil {
		return err
	}

	var parentID *uuid.UUID
	if raw := c.Query("parent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.InvalidInput("parent_id", "must be a UUID")
		}
		parentID = &id
	}

	ok, err := h.service.CanReparent(c.Context(), actorFromCtx(c), todolistID, taskID, parentID)
	if err != nil {
		return domainError(err)
	}
	return response.OK(c, fiber.Map{"can_reparent": ok})
}
