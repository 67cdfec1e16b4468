package tests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"testapi/internal/store"
	"testapi/pkg/api"
)

// Finder is the single datastore operation the handler needs.
type Finder interface {
	FindByID(ctx context.Context, id string) (*store.Test, error)
}

type Handler struct {
	finder Finder
}

func NewHandler(finder Finder) *Handler {
	return &Handler{finder: finder}
}

// Get serves GET /test/:testId. Lookup failures other than not-found are
// returned to the error handler untouched.
func (h *Handler) Get(c *gin.Context, r *api.Responder) error {
	id := strings.TrimSpace(c.Param("testId"))
	if id == "" {
		r.BadRequest()
		return nil
	}

	row, err := h.finder.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && row == nil) {
		r.NotFound(fmt.Sprintf("Test with ID %s not found", id))
		return nil
	}
	if err != nil {
		return err
	}

	r.Read(row)
	return nil
}

// Register mounts the routes on group.
func (h *Handler) Register(group gin.IRoutes) {
	get := api.Handle(h.Get)
	group.GET("/test/:testId", get)
	group.GET("/test/", get)
}
