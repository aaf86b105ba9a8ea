package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"isolend/core"
	"isolend/handler/render"
	"isolend/handler/views"
	"isolend/internal/lending"

	"github.com/bluele/gcache"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const (
	allMarketsCacheKey = "markets"
	marketsCacheTTL    = 5 * time.Second
)

func allMarketsHandler(cache gcache.Cache, marketStr core.IMarketStore, models core.RateModelSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, err := cache.Get(allMarketsCacheKey); err == nil {
			render.JSON(w, cached)
			return
		}

		markets, err := marketStr.All(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		marketViews := make([]*views.Market, 0, len(markets))
		for _, m := range markets {
			marketViews = append(marketViews, marketView(r.Context(), m, models))
		}

		_ = cache.SetWithExpire(allMarketsCacheKey, marketViews, marketsCacheTTL)
		render.JSON(w, marketViews)
	}
}

func marketHandler(marketStr core.IMarketStore, models core.RateModelSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		market, err := findMarket(r, marketStr)
		if err != nil {
			render.NotFoundRequest(w, err)
			return
		}

		render.JSON(w, marketView(r.Context(), market, models))
	}
}

func findMarket(r *http.Request, marketStr core.IMarketStore) (*core.Market, error) {
	id := cast.ToUint64(chi.URLParam(r, "market"))
	if id == 0 {
		return nil, errors.New("invalid market id")
	}

	market, err := marketStr.Find(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !market.Exists() {
		return nil, core.ErrMarketNotFound
	}

	return market, nil
}

func marketView(ctx context.Context, market *core.Market, models core.RateModelSet) *views.Market {
	view := &views.Market{
		Market:    *market,
		Liquidity: market.Liquidity(),
	}

	if market.TotalSupplyAssets.IsPositive() {
		view.UtilizationRate = market.TotalBorrowAssets.
			Div(market.TotalSupplyAssets).
			Truncate(lending.MaxPrecision)
	}

	if model, ok := models[market.RateModelID]; ok {
		if rate, err := model.BorrowRateView(ctx, market); err == nil {
			view.BorrowAPY = rate.
				Mul(decimal.NewFromInt(lending.SecondsPerYear)).
				Truncate(lending.AmountPrecision)
		}
	}

	return view
}
