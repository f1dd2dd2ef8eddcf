package main

import (
	"exobooking/src/controllers"

	"github.com/gin-gonic/gin"
)

func tourHandlers(g *gin.RouterGroup, s *controllers.Services) *gin.RouterGroup {
	g.
		GET("/tours/:id", func(ctx *gin.Context) {
			tour, status, err := controllers.ToursGet(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, gin.H{"data": tour})
		})
	return g
}

func adminTourHandlers(g *gin.RouterGroup, s *controllers.Services) *gin.RouterGroup {
	g.
		POST("/tours", func(ctx *gin.Context) {
			tour, status, err := controllers.ToursCreate(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, gin.H{"data": tour})
		})
	return g
}
