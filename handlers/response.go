package handlers

import (
	"net/http"

	"layer-backend/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondOK writes the success envelope
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError writes the error envelope for err. Internal errors are logged and
// their detail is withheld from the client.
func respondError(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		loggerFrom(c).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errs.Code(err),
			"message": errs.PublicMessage(err),
		},
	})
}

// respondBindError reports a malformed request body
func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_REQUEST",
			"message": err.Error(),
		},
	})
}
