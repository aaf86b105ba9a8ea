package cmd

import (
	"isolend/core"
	"isolend/internal/irm"
	"isolend/internal/oracle"
	accountservice "isolend/service/account"
	flashloanservice "isolend/service/flashloan"
	lendingservice "isolend/service/lending"
	marketservice "isolend/service/market"
	walletservice "isolend/service/wallet"
	feestore "isolend/store/fee"
	grantstore "isolend/store/grant"
	marketstore "isolend/store/market"
	positionstore "isolend/store/position"
	ratemodelstore "isolend/store/ratemodel"
	walletstore "isolend/store/wallet"

	"github.com/fox-one/pkg/store/db"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideSystem() *core.System {
	return &core.System{
		Admins:        cfg.App.Admins,
		ModuleID:      cfg.App.ModuleID,
		NativeAssetID: cfg.App.NativeAssetID,
		Version:       rootCmd.Version,
	}
}

func provideOracleSet() core.OracleSet {
	set := core.OracleSet{}
	for _, o := range cfg.Oracles {
		set[o.Name] = oracle.NewStatic(o.Price)
	}

	return set
}

func provideRateModelSet() core.RateModelSet {
	set := core.RateModelSet{}
	for _, m := range cfg.RateModels {
		set[m.Name] = irm.NewJumpRate(m.Base, m.Multiplier, m.Jump, m.Kink)
	}

	return set
}

type stores struct {
	markets    core.IMarketStore
	positions  core.IPositionStore
	grants     core.IGrantStore
	wallets    core.IWalletStore
	fees       core.IFeeStore
	rateModels core.IRateModelStore
}

func provideStores(database *db.DB) stores {
	return stores{
		markets:    marketstore.New(database),
		positions:  positionstore.New(database),
		grants:     grantstore.New(database),
		wallets:    walletstore.New(database),
		fees:       feestore.New(database),
		rateModels: ratemodelstore.New(database),
	}
}

type services struct {
	wallets   core.IWalletService
	markets   core.IMarketService
	accounts  core.IAccountService
	lending   core.ILendingService
	flashLoan core.IFlashLoanService
}

func provideServices(str stores, system *core.System, oracles core.OracleSet, models core.RateModelSet) services {
	walletz := walletservice.New(str.wallets, system.ModuleID)
	marketz := marketservice.New(str.markets, str.positions, str.fees, str.rateModels, walletz, oracles, models, system)
	accountz := accountservice.New(str.markets, str.positions, walletz, marketz, oracles)

	return services{
		wallets:   walletz,
		markets:   marketz,
		accounts:  accountz,
		lending:   lendingservice.New(str.markets, str.positions, str.grants, walletz, marketz, accountz),
		flashLoan: flashloanservice.New(str.fees, walletz),
	}
}
