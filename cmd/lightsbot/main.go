package main

import (
	"context"
	"os"

	"github.com/DenisKhanov/LightsBot/internal/app/tbot"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "lightsbot",
		Short:         "Telegram remote control for the lights rig",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file read before the environment")

	run := func(mode func(*tbot.App, context.Context) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := tbot.NewApp(ctx, envFile)
			if err != nil {
				logrus.Fatalf("failed to init app: %v", err)
			}
			if err = mode(app, ctx); err != nil {
				logrus.WithError(err).Error("lightsbot stopped")
				return err
			}
			return nil
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "webhook",
			Short: "Serve Telegram updates over HTTP",
			Args:  cobra.NoArgs,
			RunE:  run((*tbot.App).RunWebhook),
		},
		&cobra.Command{
			Use:   "poll",
			Short: "Receive Telegram updates with long polling",
			Args:  cobra.NoArgs,
			RunE:  run((*tbot.App).RunPolling),
		},
		&cobra.Command{
			Use:   "set-webhook",
			Short: "Register WEBHOOK_URL with Telegram",
			Args:  cobra.NoArgs,
			RunE:  run((*tbot.App).SetWebhook),
		},
	)
	return root
}
