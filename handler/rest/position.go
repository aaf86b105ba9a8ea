package rest

import (
	"net/http"

	"isolend/core"
	"isolend/handler/render"
	"isolend/handler/views"
	"isolend/internal/lending"

	"github.com/go-chi/chi"
)

func positionHandler(marketStr core.IMarketStore, positionStr core.IPositionStore, accountz core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		market, err := findMarket(r, marketStr)
		if err != nil {
			render.NotFoundRequest(w, err)
			return
		}

		userID := chi.URLParam(r, "user")
		position, err := positionStr.Find(r.Context(), market.ID, userID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		view := &views.Position{
			Position: *position,
			Supplied: lending.ToAssetsDown(position.SupplyShares, market.TotalSupplyAssets, market.TotalSupplyShares),
			Borrowed: lending.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares),
		}

		if hf, err := accountz.HealthFactor(r.Context(), market, position); err == nil {
			view.HealthFactor = hf
		}

		render.JSON(w, view)
	}
}

func userPositionsHandler(positionStr core.IPositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		positions, err := positionStr.FindByUser(r.Context(), chi.URLParam(r, "user"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, positions)
	}
}

func grantsHandler(grantStr core.IGrantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grants, err := grantStr.FindByGranter(r.Context(), chi.URLParam(r, "user"))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, grants)
	}
}
