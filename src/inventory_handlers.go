package main

import (
	"net/http"

	"exobooking/src/controllers"

	"github.com/gin-gonic/gin"
)

func availabilityHandlers(g *gin.RouterGroup, s *controllers.Services) *gin.RouterGroup {
	g.
		GET("/availability", func(ctx *gin.Context) {
			itemID, date, available, status, err := controllers.InventoryAvailability(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, gin.H{"item_id": itemID, "date": date, "available": available})
		})
	return g
}

func inventoryHandlers(g *gin.RouterGroup, s *controllers.Services) *gin.RouterGroup {
	g.
		POST("/inventory", func(ctx *gin.Context) {
			rows, status, err := controllers.InventorySetCapacity(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, gin.H{"message": "capacity saved", "rows": rows})
		}).
		GET("/inventory/drift", func(ctx *gin.Context) {
			drifts, status, err := controllers.InventoryDrift(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, gin.H{"data": drifts, "count": len(drifts)})
		}).
		GET("/inventory/:item_id", func(ctx *gin.Context) {
			rows, status, err := controllers.InventoryList(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, gin.H{"rows": rows})
		}).
		POST("/inventory/increment", func(ctx *gin.Context) {
			ok, rows, status, err := controllers.InventoryIncrement(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			if !ok {
				ctx.JSON(http.StatusConflict, gin.H{"error": "capacity_exhausted", "message": "not enough free slots", "rows": rows})
				return
			}
			ctx.JSON(status, gin.H{"message": "reserved count updated", "rows": rows})
		})
	return g
}
