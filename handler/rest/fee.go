package rest

import (
	"net/http"

	"isolend/core"
	"isolend/handler/render"
)

func feeConfigHandler(feeStr core.IFeeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := feeStr.Config(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, cfg)
	}
}

func feePoolsHandler(feeStr core.IFeeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pools, err := feeStr.AllPools(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, pools)
	}
}
