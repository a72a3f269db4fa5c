package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (app *application) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"env":    app.config.Env,
	})
}
