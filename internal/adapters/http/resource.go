package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/ports"
)

// Resource binds one entity's service operations to the generic CRUD handlers.
// List is nil for collections that are not listed by owner.
type Resource[T any] struct {
	Entity string
	Create func(ctx context.Context, fields entities.Document) (*T, error)
	Get    func(ctx context.Context, id string) (*T, error)
	List   func(ctx context.Context, userID string) ([]*T, error)
	Update func(ctx context.Context, id string, patch entities.Document) (*T, error)
	Delete func(ctx context.Context, id string) error
}

// NoteResource exposes the note service
func NoteResource(svc ports.NoteService) Resource[entities.Note] {
	return Resource[entities.Note]{
		Entity: "Note",
		Create: svc.CreateNote,
		Get:    svc.GetNote,
		List:   svc.ListNotes,
		Update: svc.UpdateNote,
		Delete: svc.DeleteNote,
	}
}

// TaskResource exposes the task service
func TaskResource(svc ports.TaskService) Resource[entities.Task] {
	return Resource[entities.Task]{
		Entity: "Task",
		Create: svc.CreateTask,
		Get:    svc.GetTask,
		List:   svc.ListTasks,
		Update: svc.UpdateTask,
		Delete: svc.DeleteTask,
	}
}

// UserResource exposes the user service
func UserResource(svc ports.UserService) Resource[entities.User] {
	return Resource[entities.User]{
		Entity: "User",
		Create: svc.CreateUser,
		Get:    svc.GetUser,
		Update: svc.UpdateUser,
		Delete: svc.DeleteUser,
	}
}

// CRUDHandler serves one collection's REST surface
type CRUDHandler[T any] struct {
	resource Resource[T]
	logger   *logger.Logger
}

// NewCRUDHandler creates a handler set for resource
func NewCRUDHandler[T any](resource Resource[T], logger *logger.Logger) *CRUDHandler[T] {
	return &CRUDHandler[T]{
		resource: resource,
		logger:   logger.WithComponent(strings.ToLower(resource.Entity) + "_handler"),
	}
}

// Register mounts the handlers on g
func (h *CRUDHandler[T]) Register(g *echo.Group) {
	g.POST("", h.Create)
	if h.resource.List != nil {
		g.GET("", h.List)
	}
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// Create stores a new record and answers 201 with the stored record
func (h *CRUDHandler[T]) Create(c echo.Context) error {
	fields, err := bindDocument(c)
	if err != nil {
		return err
	}

	item, err := h.resource.Create(c.Request().Context(), fields)
	if err != nil {
		return h.fail("create "+h.noun(), err)
	}

	return c.JSON(http.StatusCreated, item)
}

// List returns every record owned by the userId query parameter
func (h *CRUDHandler[T]) List(c echo.Context) error {
	items, err := h.resource.List(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return h.fail("fetch "+h.noun()+"s", err)
	}

	return c.JSON(http.StatusOK, items)
}

// Get returns a single record
func (h *CRUDHandler[T]) Get(c echo.Context) error {
	item, err := h.resource.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail("fetch "+h.noun(), err)
	}

	return c.JSON(http.StatusOK, item)
}

// Update merges the request body into the record and returns the stored result
func (h *CRUDHandler[T]) Update(c echo.Context) error {
	patch, err := bindDocument(c)
	if err != nil {
		return err
	}

	item, err := h.resource.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return h.fail("update "+h.noun(), err)
	}

	return c.JSON(http.StatusOK, item)
}

// Delete removes the record permanently
func (h *CRUDHandler[T]) Delete(c echo.Context) error {
	if err := h.resource.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail("delete "+h.noun(), err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{
		Message: h.resource.Entity + " deleted successfully",
	})
}

// fail turns a service error into an HTTP error. Domain errors keep their
// message; anything else is reported generically and logged.
func (h *CRUDHandler[T]) fail(action string, err error) error {
	status := StatusFor(err)
	if status != http.StatusInternalServerError {
		return echo.NewHTTPError(status, err.Error()).SetInternal(err)
	}

	msg := "Failed to " + action
	h.logger.Errorw(msg, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, msg).SetInternal(err)
}

func (h *CRUDHandler[T]) noun() string {
	return strings.ToLower(h.resource.Entity)
}

// StatusFor maps the domain error taxonomy onto HTTP status codes
func StatusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// bindDocument decodes the JSON body only; path and query values are not
// merged into the document.
func bindDocument(c echo.Context) (entities.Document, error) {
	var doc entities.Document
	if err := new(echo.DefaultBinder).BindBody(c, &doc); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format").SetInternal(err)
	}
	if doc == nil {
		doc = entities.Document{}
	}
	return doc, nil
}
