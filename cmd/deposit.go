package cmd

import (
	"github.com/spf13/cobra"
)

// deposit credits an account's internal balance directly. Inbound transfers
// land here until a chain or payment gateway is wired in front of the ledger.
var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "credit an account balance",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		str := provideStores(database)

		user, _ := cmd.Flags().GetString("user")
		assetID, _ := cmd.Flags().GetString("asset")
		amount, err := flagDecimal(cmd, "amount")
		if err != nil || !amount.IsPositive() {
			cmd.PrintErrln("invalid amount")
			return
		}

		balance, err := str.wallets.Find(cmd.Context(), user, assetID)
		if err != nil {
			cmd.PrintErrln("find balance error:", err)
			return
		}

		balance.Amount = balance.Amount.Add(amount)
		if err := str.wallets.Save(cmd.Context(), balance); err != nil {
			cmd.PrintErrln("save balance error:", err)
			return
		}

		cmd.Println("balance:", balance.Amount)
	},
}

func init() {
	rootCmd.AddCommand(depositCmd)

	depositCmd.Flags().String("user", "", "user id")
	depositCmd.Flags().String("asset", "", "asset id")
	depositCmd.Flags().String("amount", "0", "amount to credit")
}
