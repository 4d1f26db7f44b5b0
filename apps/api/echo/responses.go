package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mwalimu/tutorhub/core"
)

// Every endpoint answers with the same envelope; list endpoints add a
// pagination block and errors swap `data` for `error`.
type (
	Response struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data,omitempty"`
		Message string      `json:"message,omitempty"`
	}

	ListResponse struct {
		Success    bool            `json:"success"`
		Data       interface{}     `json:"data"`
		Pagination core.Pagination `json:"pagination"`
	}

	ErrorResponse struct {
		Success bool        `json:"success"`
		Error   interface{} `json:"error"`
	}
)

func respond(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, Response{Success: true, Data: data})
}

func respondMessage(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusOK, Response{Success: true, Message: msg})
}

func respondList(ctx echo.Context, data interface{}, pagination core.Pagination) error {
	return ctx.JSON(http.StatusOK, ListResponse{Success: true, Data: data, Pagination: pagination})
}
