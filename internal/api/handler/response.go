package handler

import (
	"time"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every API response, success or failure.
type Envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Meta describes the request that produced a response.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func NewMeta(c echo.Context) *Meta {
	return &Meta{
		Timestamp: time.Now().UTC(),
		Path:      c.Request().URL.Path,
		Method:    c.Request().Method,
	}
}

// DefaultSuccessMessage is used when a handler has nothing more specific to say.
const DefaultSuccessMessage = "Operation completed successfully"

func respond(c echo.Context, status int, message string, data any) error {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    NewMeta(c),
	})
}

// Fail writes an error envelope.
func Fail(c echo.Context, status int, code, message string, details any) error {
	return c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Meta:    NewMeta(c),
		Error:   &ErrorBody{Code: code, Details: details},
	})
}
