package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// respond writes the standard response envelope.
func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"success": status < 400,
		"data":    data,
		"message": message,
	})
}

// respondRaw writes an envelope whose data field is pre-encoded JSON.
func respondRaw(c *gin.Context, status int, data map[string]json.RawMessage, message string) {
	c.JSON(status, gin.H{
		"success": status < 400,
		"data":    data,
		"message": message,
	})
}
