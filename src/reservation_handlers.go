package main

import (
	"log"
	"net/http"

	"exobooking/src/controllers"

	"github.com/gin-gonic/gin"
)

// reservationHandlers is the public booking endpoint. It takes no credentials.
func reservationHandlers(g *gin.RouterGroup, s *controllers.Services) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			res, status, err := controllers.ReservationsCreate(ctx, s)
			if err != nil {
				if status >= http.StatusInternalServerError {
					log.Printf("Error creating reservation: %s\n", err.Error())
				}
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, res)
		})
	return g
}

func adminReservationHandlers(g *gin.RouterGroup, s *controllers.Services) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			rows, meta, status, err := controllers.ReservationsList(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, gin.H{"data": rows, "meta": meta})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			row, status, err := controllers.ReservationsGet(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			ctx.JSON(status, gin.H{"data": row})
		}).
		PUT("/reservations/:id/status", func(ctx *gin.Context) {
			st, status, err := controllers.ReservationsSetStatus(ctx, s)
			if err != nil {
				ctx.JSON(status, controllers.ErrorBody(err))
				return
			}
			log.Printf("Reservation %s set to %s by %s\n", ctx.Param("id"), st, ctx.GetString("username"))
			ctx.JSON(status, gin.H{"message": "status updated", "status": st})
		})
	return g
}
