package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/atomic-sms/components/notification"
	"github.com/bububa/atomic-sms/components/roster"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		flags      segmentFlags
		to         []string
		recipients string
	)
	cmd := &cobra.Command{
		Use:   "send --to <e164> [text]",
		Short: "Send a message part by part through the log transport",
		Long: `Segments a message and delivers it to every recipient, one part at a
time and in order. Parts are written to the log instead of a carrier; the
delivery receipts are printed as JSON.

A spreadsheet given with --recipients adds one message per row. Its first
row names the columns: phone (or recipient), an optional message column that
overrides the shared body, and variables the body references as {column}.

Examples:
  smsparts send --to +14155550100 --to +14155550101 "Your code is 1234."
  smsparts send --recipients customers.xlsx "Hi {name}, your order shipped."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(to) == 0 && recipients == "" {
				return errors.New("at least one --to recipient or a --recipients list is required")
			}
			cfg := flags.merge(cmd, a.cfg)
			text, err := flags.readBody(cmd.Context(), cmd, args, cfg, a.logger)
			if err != nil {
				return err
			}
			msgs := make([]notification.Message, 0, len(to))
			for _, recipient := range to {
				msgs = append(msgs, notification.Message{
					ID:        notification.NewMessageID(),
					Recipient: recipient,
					Body:      text,
				})
			}
			if recipients != "" {
				entries, err := loadRoster(cmd.Context(), recipients, cfg)
				if err != nil {
					return err
				}
				a.logger.Debug("recipient list loaded", zap.String("file", recipients), zap.Int("entries", len(entries)))
				msgs = append(msgs, roster.Messages(entries, text)...)
			}
			dispatcher, err := newDispatcher(cfg, a.logger)
			if err != nil {
				return err
			}
			receipts, sendErr := dispatcher.DispatchAll(cmd.Context(), msgs)
			stats := dispatcher.Stats()
			a.logger.Info("messages dispatched", zap.Int64("messages", stats.Messages), zap.Int64("sent", stats.PartsSent), zap.Int64("failed", stats.PartsFailed))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(receipts); err != nil {
				return err
			}
			return sendErr
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringSliceVarP(&to, "to", "t", nil, "Recipient phone number in E.164 form; repeatable")
	cmd.Flags().StringVarP(&recipients, "recipients", "r", "", "xlsx recipient list: a file, http(s) URL or s3://bucket/key")
	return cmd
}
