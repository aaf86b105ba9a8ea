package cmd

import (
	"github.com/spf13/cobra"
)

var feeCmd = &cobra.Command{
	Use:   "fee",
	Short: "manage protocol fee settings",
}

var feeRecipientCmd = &cobra.Command{
	Use:   "recipient",
	Short: "set the protocol fee recipient",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		str := provideStores(database)
		svc := provideServices(str, system, provideOracleSet(), provideRateModelSet())

		user, _ := cmd.Flags().GetString("user")
		if err := svc.markets.SetFeeRecipient(cmd.Context(), admin(system), user); err != nil {
			cmd.PrintErrln("set fee recipient error:", err)
			return
		}

		cmd.Println("fee recipient updated")
	},
}

var feeCreationCmd = &cobra.Command{
	Use:   "creation",
	Short: "set the market creation fee",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		str := provideStores(database)
		svc := provideServices(str, system, provideOracleSet(), provideRateModelSet())

		amount, err := flagDecimal(cmd, "amount")
		if err != nil {
			cmd.PrintErrln("invalid amount:", err)
			return
		}

		if err := svc.markets.SetMarketCreationFee(cmd.Context(), admin(system), amount); err != nil {
			cmd.PrintErrln("set creation fee error:", err)
			return
		}

		cmd.Println("market creation fee updated")
	},
}

var feeFlashCmd = &cobra.Command{
	Use:   "flash",
	Short: "set the flash loan fee rate",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		str := provideStores(database)
		svc := provideServices(str, system, provideOracleSet(), provideRateModelSet())

		rate, err := flagDecimal(cmd, "rate")
		if err != nil {
			cmd.PrintErrln("invalid rate:", err)
			return
		}

		if err := svc.markets.SetFlashLoanRate(cmd.Context(), admin(system), rate); err != nil {
			cmd.PrintErrln("set flash loan rate error:", err)
			return
		}

		cmd.Println("flash loan rate updated")
	},
}

var feeWithdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "withdraw accumulated fees to the fee recipient",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		str := provideStores(database)
		svc := provideServices(str, system, provideOracleSet(), provideRateModelSet())

		assetID, _ := cmd.Flags().GetString("asset")
		amount, err := flagDecimal(cmd, "amount")
		if err != nil {
			cmd.PrintErrln("invalid amount:", err)
			return
		}

		if err := svc.markets.WithdrawFees(cmd.Context(), admin(system), assetID, amount); err != nil {
			cmd.PrintErrln("withdraw fees error:", err)
			return
		}

		cmd.Println("fees withdrawn")
	},
}

func init() {
	rootCmd.AddCommand(feeCmd)
	feeCmd.AddCommand(feeRecipientCmd, feeCreationCmd, feeFlashCmd, feeWithdrawCmd)

	feeRecipientCmd.Flags().String("user", "", "fee recipient user id")
	feeCreationCmd.Flags().String("amount", "0", "creation fee in the native asset")
	feeFlashCmd.Flags().String("rate", "0", "flash loan fee rate, [0, 0.05]")
	feeWithdrawCmd.Flags().String("asset", "", "asset id")
	feeWithdrawCmd.Flags().String("amount", "0", "amount to withdraw")
}
