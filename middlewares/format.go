package middlewares

import (
	"log"

	"github.com/gin-gonic/gin"
)

// RespondJSON writes a success JSON response to the client.
func RespondJSON(c *gin.Context, data gin.H, status int) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// HttpError logs an error and writes an HTTP error response to the client.
// messageAr may be empty; it is omitted from the body in that case.
func HttpError(c *gin.Context, message, messageAr string, status int, err error) {
	log.Printf("HTTP %d - %s: %v", status, message, err)
	body := gin.H{"error": message}
	if messageAr != "" {
		body["errorAr"] = messageAr
	}
	c.JSON(status, body)
}

// ValidationError writes a 400 response carrying field-level details, as
// produced by the ozzo validation error maps.
func ValidationError(c *gin.Context, err error) {
	log.Printf("HTTP 400 - validation failed: %v", err)
	c.JSON(400, gin.H{
		"error":   "Validation failed",
		"errorAr": "فشل التحقق من الصحة",
		"details": err,
	})
}
