package rest

import (
	"errors"
	"net/http"

	"isolend/core"
	"isolend/handler/render"

	"github.com/bluele/gcache"
	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	markets core.IMarketStore,
	positions core.IPositionStore,
	grants core.IGrantStore,
	fees core.IFeeStore,
	accountz core.IAccountService,
	models core.RateModelSet,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	cache := gcache.New(64).LRU().Build()

	router.Get("/markets", allMarketsHandler(cache, markets, models))
	router.Get("/markets/{market}", marketHandler(markets, models))
	router.Get("/markets/{market}/positions/{user}", positionHandler(markets, positions, accountz))
	router.Get("/positions/{user}", userPositionsHandler(positions))
	router.Get("/grants/{user}", grantsHandler(grants))
	router.Get("/fees/config", feeConfigHandler(fees))
	router.Get("/fees/pools", feePoolsHandler(fees))

	return router
}
