package config

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type (
	// Config system config
	Config struct {
		DB         db.Config   `json:"db"`
		App        App         `json:"app"`
		Worker     Worker      `json:"worker"`
		Oracles    []Oracle    `json:"oracles"`
		RateModels []RateModel `json:"rate_models"`
	}

	// App app config
	App struct {
		Admins        []string `json:"admins"`
		ModuleID      string   `json:"module_id"`
		NativeAssetID string   `json:"native_asset_id"`
	}

	// Worker background job config
	Worker struct {
		// Interval cron spec for the interest sweep, e.g. "@every 10s"
		Interval string `json:"interval"`
	}

	// Oracle a static price feed registered at boot
	Oracle struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}

	// RateModel a jump rate curve registered at boot; rates are annual
	RateModel struct {
		Name       string          `json:"name"`
		Base       decimal.Decimal `json:"base"`
		Multiplier decimal.Decimal `json:"multiplier"`
		Jump       decimal.Decimal `json:"jump"`
		Kink       decimal.Decimal `json:"kink"`
	}
)
