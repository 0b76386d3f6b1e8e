package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vibast-solutions/lib-go-stripe/app/gateway"
	"github.com/vibast-solutions/lib-go-stripe/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured Stripe credentials",
	Long:  "Issue a read-only balance call against Stripe to verify the configured secret key.",
	Run:   runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := gateway.NewClient(cfg.Stripe)
	if !client.CheckCredentials(ctx) {
		logrus.Fatal("Credential check failed")
	}
	logrus.Info("Credential check passed")
}
