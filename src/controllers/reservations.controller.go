package controllers

import (
	"net/http"

	"exobooking/src/types"
	"exobooking/src/utils"

	"github.com/gin-gonic/gin"
)

var reservationBindErrors = bindErrors{
	"item_id": types.ErrInvalidItem,
	"nome":    types.ErrMissingName,
	"name":    types.ErrMissingName,
	"email":   types.ErrInvalidEmail,
}

func ReservationsCreate(ctx *gin.Context, s *Services) (*types.APIResponseReservation, int, error) {
	var body types.CreateReservationRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		err = reservationBindErrors.translate(err)
		return nil, StatusFor(err), err
	}
	res, err := s.Reservations.CreateReservation(ctx, types.CreateReservationInput{
		ItemID:    body.ItemID,
		Date:      body.Date,
		Name:      body.CustomerName(),
		Email:     body.Email,
		RequestID: ctx.GetString("request_id"),
	})
	if err != nil {
		return nil, StatusFor(err), err
	}
	out := res.ToResponse()
	return &out, http.StatusCreated, nil
}

func ReservationsList(ctx *gin.Context, s *Services) ([]types.ReservationRow, *types.PageMeta, int, error) {
	var query types.ReservationsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		err = types.ErrInvalidRequest.Wrap(err)
		return nil, nil, StatusFor(err), err
	}
	if query.Page < 1 {
		query.Page = 1
	}
	perPage := s.Reservations.PageSize()
	filter := types.ReservationFilter{
		Status:   query.Status,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Limit:    perPage,
		Offset:   utils.PageOffset(query.Page, perPage),
	}
	total, err := s.Reservations.CountReservations(ctx, filter)
	if err != nil {
		return nil, nil, StatusFor(err), err
	}
	rows, err := s.Reservations.ListReservations(ctx, filter)
	if err != nil {
		return nil, nil, StatusFor(err), err
	}
	meta := types.PageMeta{
		Page:       query.Page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: utils.TotalPages(total, perPage),
	}
	return rows, &meta, http.StatusOK, nil
}

func ReservationsGet(ctx *gin.Context, s *Services) (*types.ReservationRow, int, error) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return nil, http.StatusNotFound, types.ErrReservationNotFound
	}
	row, err := s.Reservations.GetReservation(ctx, params.ID)
	if err != nil {
		return nil, StatusFor(err), err
	}
	return row, http.StatusOK, nil
}

func ReservationsSetStatus(ctx *gin.Context, s *Services) (types.ReservationStatus, int, error) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return "", http.StatusNotFound, types.ErrReservationNotFound
	}
	var body types.SetStatusRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		err = bindErrors{"Status": types.ErrInvalidStatusValue, "status": types.ErrInvalidStatusValue}.translate(err)
		return "", StatusFor(err), err
	}
	if err := s.Reservations.SetStatus(ctx, params.ID, body.Status); err != nil {
		return "", StatusFor(err), err
	}
	st, _ := types.ParseReservationStatus(body.Status)
	return st, http.StatusOK, nil
}
