package cmd

import (
	"context"

	"isolend/worker/interest"

	"github.com/drone/signal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run the interest accrual worker",
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		str := provideStores(database)
		svc := provideServices(str, system, provideOracleSet(), provideRateModelSet())

		job := interest.New(cfg.Worker.Interval, str.markets, svc.markets)
		if err := job.Start(); err != nil {
			logrus.WithError(err).Fatal("start worker failed")
		}
		defer job.Stop()

		ctx, quit := context.WithCancel(cmd.Context())
		signal.WithContextFunc(ctx, quit)

		logrus.Infoln("interest worker started")
		<-ctx.Done()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
