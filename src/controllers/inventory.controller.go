package controllers

import (
	"net/http"

	"exobooking/src/models"
	"exobooking/src/types"
	"exobooking/src/utils"

	"github.com/gin-gonic/gin"
)

var inventoryBindErrors = bindErrors{
	"ItemID":   types.ErrInvalidItem,
	"item_id":  types.ErrInvalidItem,
	"Date":     types.ErrInvalidDate,
	"date":     types.ErrInvalidDate,
	"Capacity": types.ErrInvalidCapacity,
	"capacity": types.ErrInvalidCapacity,
	"Qty":      types.ErrInvalidQuantity,
	"qty":      types.ErrInvalidQuantity,
}

func toRows(recs []models.InventoryRecord) []types.APIResponseInventoryRow {
	rows := make([]types.APIResponseInventoryRow, 0, len(recs))
	for i := range recs {
		rows = append(rows, recs[i].ToRow())
	}
	return rows
}

func (s *Services) requireBookable(ctx *gin.Context, itemID uint) error {
	ok, err := s.Catalog.IsBookable(ctx, itemID)
	if err != nil {
		return types.ErrPersistence.Wrap(err)
	}
	if !ok {
		return types.ErrInvalidItem
	}
	return nil
}

// InventoryTable always re-reads the ledger so concurrent edits and claims show up.
func InventoryTable(ctx *gin.Context, s *Services, itemID uint) ([]types.APIResponseInventoryRow, int, error) {
	recs, err := s.Ledger.ListRecords(ctx, itemID)
	if err != nil {
		if _, ok := types.AsError(err); !ok {
			err = types.ErrPersistence.Wrap(err)
		}
		return nil, StatusFor(err), err
	}
	return toRows(recs), http.StatusOK, nil
}

func InventorySetCapacity(ctx *gin.Context, s *Services) ([]types.APIResponseInventoryRow, int, error) {
	var body types.SetCapacityRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		err = inventoryBindErrors.translate(err)
		return nil, StatusFor(err), err
	}
	if err := s.requireBookable(ctx, body.ItemID); err != nil {
		return nil, StatusFor(err), err
	}
	if _, err := s.Ledger.SetCapacity(ctx, body.ItemID, body.Date, *body.Capacity); err != nil {
		if _, ok := types.AsError(err); !ok {
			err = types.ErrPersistence.Wrap(err)
		}
		return nil, StatusFor(err), err
	}
	return InventoryTable(ctx, s, body.ItemID)
}

func InventoryList(ctx *gin.Context, s *Services) ([]types.APIResponseInventoryRow, int, error) {
	var params types.ItemRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return nil, http.StatusBadRequest, types.ErrInvalidItem
	}
	return InventoryTable(ctx, s, params.ItemID)
}

// InventoryIncrement reports whether the claim of qty slots went through.
func InventoryIncrement(ctx *gin.Context, s *Services) (bool, []types.APIResponseInventoryRow, int, error) {
	var body types.IncrementReservedRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		err = inventoryBindErrors.translate(err)
		return false, nil, StatusFor(err), err
	}
	ok, err := s.Ledger.IncrementReserved(ctx, body.ItemID, body.Date, body.Qty)
	if err != nil {
		if _, isTyped := types.AsError(err); !isTyped {
			err = types.ErrPersistence.Wrap(err)
		}
		return false, nil, StatusFor(err), err
	}
	rows, status, err := InventoryTable(ctx, s, body.ItemID)
	return ok, rows, status, err
}

func InventoryAvailability(ctx *gin.Context, s *Services) (uint, string, int, int, error) {
	var query types.AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		err = inventoryBindErrors.translate(err)
		return 0, "", 0, StatusFor(err), err
	}
	date, ok := utils.NormalizeDate(query.Date)
	if !ok {
		return 0, "", 0, http.StatusBadRequest, types.ErrInvalidDate
	}
	n, err := s.Ledger.AvailableSlots(ctx, query.ItemID, date)
	if err != nil {
		if _, isTyped := types.AsError(err); !isTyped {
			err = types.ErrPersistence.Wrap(err)
		}
		return 0, "", 0, StatusFor(err), err
	}
	return query.ItemID, date, n, http.StatusOK, nil
}

func InventoryDrift(ctx *gin.Context, s *Services) ([]types.SlotDrift, int, error) {
	drifts, err := s.Reconciler.Run(ctx)
	if err != nil {
		err = types.ErrPersistence.Wrap(err)
		return nil, StatusFor(err), err
	}
	return drifts, http.StatusOK, nil
}
