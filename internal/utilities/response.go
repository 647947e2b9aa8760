// Package utilities contain utility code that use across the package
package utilities

import "github.com/gin-gonic/gin"

// APIResponse is the uniform envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// PagedItems pairs list items with their pagination block.
type PagedItems struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// Respond writes a successful envelope carrying data.
func Respond(c *gin.Context, code int, data interface{}) {
	c.JSON(code, APIResponse{Success: true, Data: data})
}

// Message writes a successful envelope carrying only a message.
func Message(c *gin.Context, code int, msg string) {
	c.JSON(code, APIResponse{Success: true, Message: msg})
}

// Fail writes a failed envelope with a human-readable message.
func Fail(c *gin.Context, code int, msg string) {
	c.JSON(code, APIResponse{Success: false, Message: msg})
}

// AbortFail aborts the request with a failed envelope, for middleware.
func AbortFail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, APIResponse{Success: false, Message: msg})
}
