package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bububa/atomic-sms/tools/segment"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func newSplitCmd(a *app) *cobra.Command {
	var (
		flags  segmentFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "split [text]",
		Short: "Split a message into SMS parts",
		Long: `Splits a message and prints its parts in delivery order.

Examples:
  smsparts split "Hello there. How are you?"
  smsparts split --auto --file newsletter.html --format json
  echo "Hi Russ" | smsparts split --limit 70`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.merge(cmd, a.cfg)
			text, err := flags.readBody(cmd.Context(), cmd, args, cfg, a.logger)
			if err != nil {
				return err
			}
			tool := segment.New()
			output, err := tool.Run(cmd.Context(), &segment.Input{
				Text:     text,
				Limit:    cfg.Limit,
				Splitter: cfg.Splitter,
				Counter:  cfg.Counter,
				Auto:     cfg.Auto,
			})
			if err != nil {
				return err
			}
			a.logger.Debug("message split", zap.Int("parts", output.Count), zap.Int("limit", output.Limit), zap.String("encoding", string(output.Encoding)))
			return writeOutput(cmd.OutOrStdout(), format, output)
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "Output format: text, json or yaml")
	return cmd
}

func writeOutput(w io.Writer, format string, output *segment.Output) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(output)
	case formatText, "":
		for idx, part := range output.Parts {
			if _, err := fmt.Fprintf(w, "--- part %d/%d ---\n%s\n", idx+1, output.Count, part); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}
