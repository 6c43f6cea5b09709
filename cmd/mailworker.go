/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/accountsvc/apiserver/config"
	"github.com/accountsvc/apiserver/internal/mailer"
	"github.com/spf13/cobra"
)

// mailworkerCmd represents the mailworker command. It drains activation
// email jobs queued by the rabbitmq mailer backend and delivers them over
// SMTP.
var mailworkerCmd = &cobra.Command{
	Use:   "mailworker",
	Short: "Delivers queued activation email over SMTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		queue, err := mailer.NewRabbitMQMailer(cfg.RabbitMQ, cfg.Mailer.ActivationBaseURL)
		if err != nil {
			return fmt.Errorf("connect rabbitmq failed: %w", err)
		}
		defer func() {
			_ = queue.Close()
		}()

		smtpMailer := mailer.NewSMTPMailer(cfg.SMTP, cfg.Mailer.ActivationBaseURL)

		fmt.Fprintf(os.Stderr, "mailworker consuming queue %q\n", cfg.RabbitMQ.Queue)
		return queue.Consume(cmd.Context(), func(ctx context.Context, msg mailer.ActivationMessage) error {
			return smtpMailer.SendActivation(ctx, msg.To, msg.Token)
		})
	},
}

func init() {
	rootCmd.AddCommand(mailworkerCmd)
}
