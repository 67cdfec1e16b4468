package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const responderKey = "api.responder"

// Responder writes envelope responses for a single request. One is created
// per request by Envelope; handlers must call at most one send method.
type Responder struct {
	c *gin.Context
}

func NewResponder(c *gin.Context) *Responder {
	return &Responder{c: c}
}

// Envelope installs a fresh Responder on every request and always continues
// the chain.
func Envelope() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responderKey, NewResponder(c))
		c.Next()
	}
}

// From returns the request's Responder, creating one if Envelope did not run.
func From(c *gin.Context) *Responder {
	if v, ok := c.Get(responderKey); ok {
		if r, ok := v.(*Responder); ok {
			return r
		}
	}
	r := NewResponder(c)
	c.Set(responderKey, r)
	return r
}

// Context exposes the underlying gin context.
func (r *Responder) Context() *gin.Context {
	return r.c
}

func (r *Responder) Send(status int, data any) *Responder {
	r.c.JSON(status, Success(status, data))
	return r
}

func (r *Responder) Created(data any) *Responder {
	return r.Send(http.StatusCreated, data)
}

func (r *Responder) Read(data any) *Responder {
	return r.Send(http.StatusOK, data)
}

func (r *Responder) Updated(data any) *Responder {
	return r.Send(http.StatusOK, data)
}

// Deleted confirms a removal. The message defaults to "Deleted successfully".
func (r *Responder) Deleted(message ...string) *Responder {
	return r.Send(http.StatusOK, MessageData{Message: pick(message, defaultDeletedMessage)})
}

// List sends items untouched as the envelope data.
func (r *Responder) List(items any) *Responder {
	return r.Send(http.StatusOK, items)
}

// Fail writes an ErrorEnvelope with the given status and message.
func (r *Responder) Fail(status int, message string) *Responder {
	r.c.JSON(status, Failure(status, message))
	return r
}

func (r *Responder) BadRequest(message ...string) *Responder {
	return r.failDefault(http.StatusBadRequest, message)
}

func (r *Responder) Unauthorized(message ...string) *Responder {
	return r.failDefault(http.StatusUnauthorized, message)
}

func (r *Responder) Forbidden(message ...string) *Responder {
	return r.failDefault(http.StatusForbidden, message)
}

func (r *Responder) NotFound(message ...string) *Responder {
	return r.failDefault(http.StatusNotFound, message)
}

func (r *Responder) failDefault(status int, message []string) *Responder {
	return r.Fail(status, pick(message, statusText(status)))
}

func pick(values []string, fallback string) string {
	if len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return fallback
}
