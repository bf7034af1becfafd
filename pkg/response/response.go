package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with a message and data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// Accepted sends 202 for work handed to the background worker.
func Accepted(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusAccepted, Body{Success: true, Message: message, Data: data})
}

// Fail sends a failure envelope with the given status.
func Fail(c *gin.Context, status int, message, err string) {
	c.JSON(status, Body{Success: false, Message: message, Error: err})
}

// BadRequest sends 400 with a summary message and the triggering error.
func BadRequest(c *gin.Context, message, err string) {
	Fail(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	Fail(c, http.StatusUnauthorized, "Unauthorized", err)
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	Fail(c, http.StatusForbidden, "Forbidden", err)
}

// ServiceUnavailable sends 503.
func ServiceUnavailable(c *gin.Context, err string) {
	Fail(c, http.StatusServiceUnavailable, "Service unavailable", err)
}

// Internal sends 500.
func Internal(c *gin.Context, message, err string) {
	Fail(c, http.StatusInternalServerError, message, err)
}
