package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/handler"
	"github.com/SezginYurdakul/catering-api/internal/middleware"
)

func notFound(c *gin.Context) {
	resp := handler.NewErrorResponse("route not found")
	resp.RequestID = c.GetString(middleware.ContextRequestID)
	c.JSON(http.StatusNotFound, resp)
}

func methodNotAllowed(c *gin.Context) {
	resp := handler.NewErrorResponse("method not allowed")
	resp.RequestID = c.GetString(middleware.ContextRequestID)
	c.JSON(http.StatusMethodNotAllowed, resp)
}
