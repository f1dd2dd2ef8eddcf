package controllers

import (
	"net/http"

	"exobooking/src/models"
	"exobooking/src/types"

	"github.com/gin-gonic/gin"
)

func ToursCreate(ctx *gin.Context, s *Services) (*models.Tour, int, error) {
	var body types.CreateTourRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		err = types.ErrInvalidRequest.Wrap(err)
		return nil, StatusFor(err), err
	}
	tour, err := s.Catalog.Create(ctx, body.Title, types.TourStatus(body.Status))
	if err != nil {
		if _, ok := types.AsError(err); !ok {
			err = types.ErrPersistence.Wrap(err)
		}
		return nil, StatusFor(err), err
	}
	return tour, http.StatusCreated, nil
}

func ToursGet(ctx *gin.Context, s *Services) (*models.Tour, int, error) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return nil, http.StatusNotFound, types.ErrInvalidItem
	}
	tour, err := s.Catalog.Get(ctx, params.ID)
	if err != nil {
		err = types.ErrPersistence.Wrap(err)
		return nil, StatusFor(err), err
	}
	if tour == nil || !tour.Bookable() {
		return nil, http.StatusNotFound, types.ErrInvalidItem
	}
	return tour, http.StatusOK, nil
}
