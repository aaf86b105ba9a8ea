package cmd

import (
	"isolend/core"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "manage lending markets",
}

var marketCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "create a new lending market",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		str := provideStores(database)
		svc := provideServices(str, system, provideOracleSet(), provideRateModelSet())

		symbol, _ := cmd.Flags().GetString("symbol")
		assetID, _ := cmd.Flags().GetString("asset")
		collateralID, _ := cmd.Flags().GetString("collateral")
		oracleID, _ := cmd.Flags().GetString("oracle")
		modelID, _ := cmd.Flags().GetString("model")
		ltv, err := flagDecimal(cmd, "ltv")
		if err != nil {
			cmd.PrintErrln("invalid ltv:", err)
			return
		}

		market, err := svc.markets.CreateMarket(cmd.Context(), admin(system), core.MarketConfig{
			Symbol:            symbol,
			AssetID:           assetID,
			CollateralAssetID: collateralID,
			OracleID:          oracleID,
			RateModelID:       modelID,
			LiquidationLTV:    ltv,
		})
		if err != nil {
			cmd.PrintErrln("create market error:", err)
			return
		}

		cmd.Println("market created:", market.ID, market.Symbol)
	},
}

var marketAllowModelCmd = &cobra.Command{
	Use:   "allow-model",
	Short: "allow or forbid a rate model for new markets",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		str := provideStores(database)
		svc := provideServices(str, system, provideOracleSet(), provideRateModelSet())

		name, _ := cmd.Flags().GetString("name")
		allowed, _ := cmd.Flags().GetBool("allowed")

		if err := svc.markets.AllowRateModel(cmd.Context(), admin(system), name, allowed); err != nil {
			cmd.PrintErrln("allow rate model error:", err)
			return
		}

		cmd.Println("rate model", name, "allowed:", allowed)
	},
}

var marketSetFeeCmd = &cobra.Command{
	Use:   "set-fee",
	Short: "set a market's protocol fee rate",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		str := provideStores(database)
		svc := provideServices(str, system, provideOracleSet(), provideRateModelSet())

		marketID, _ := cmd.Flags().GetUint64("market")
		rate, err := flagDecimal(cmd, "rate")
		if err != nil {
			cmd.PrintErrln("invalid rate:", err)
			return
		}

		if err := svc.markets.SetProtocolFee(cmd.Context(), admin(system), marketID, rate); err != nil {
			cmd.PrintErrln("set protocol fee error:", err)
			return
		}

		cmd.Println("protocol fee updated")
	},
}

func admin(system *core.System) string {
	if len(system.Admins) == 0 {
		return ""
	}

	return system.Admins[0]
}

func flagDecimal(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	return decimal.NewFromString(raw)
}

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(marketCreateCmd, marketAllowModelCmd, marketSetFeeCmd)

	marketCreateCmd.Flags().String("symbol", "", "market symbol")
	marketCreateCmd.Flags().String("asset", "", "loan asset id")
	marketCreateCmd.Flags().String("collateral", "", "collateral asset id")
	marketCreateCmd.Flags().String("oracle", "", "registered oracle name")
	marketCreateCmd.Flags().String("model", "", "registered rate model name")
	marketCreateCmd.Flags().String("ltv", "0", "liquidation ltv, [0, 1)")

	marketAllowModelCmd.Flags().String("name", "", "rate model name")
	marketAllowModelCmd.Flags().Bool("allowed", true, "allowed")

	marketSetFeeCmd.Flags().Uint64("market", 0, "market id")
	marketSetFeeCmd.Flags().String("rate", "0", "protocol fee rate, [0, 0.25]")
}
