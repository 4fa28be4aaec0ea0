package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	frenzyv1 "factor-frenzy/api/frenzy/v1"
	"factor-frenzy/internal/challenge/engine"
	"factor-frenzy/internal/factor"
	"factor-frenzy/internal/factor/domain"
)

func (c *cli) factorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factor <n>...",
		Short: "Print the prime factors of each number and how long it took",
		Example: `  frenzy factor 105
  frenzy factor 21 1024 97`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []*frenzyv1.FactorizeResponse
			if c.remote() {
				conn, client, err := c.dial()
				if err != nil {
					return err
				}
				defer conn.Close()
				for _, arg := range args {
					ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
					resp, err := client.Factorize(ctx, &frenzyv1.FactorizeRequest{Number: arg})
					cancel()
					if err != nil {
						return fmt.Errorf("factorize %s: %w", arg, err)
					}
					results = append(results, resp)
				}
			} else {
				for _, arg := range args {
					n, err := factor.ParseTarget(arg)
					if err != nil {
						return err
					}
					m, err := factor.Factorize(n)
					if err != nil {
						return err
					}
					results = append(results, toResult(m))
				}
			}
			return printMeasurements(cmd.OutOrStdout(), results)
		},
	}
}

func (c *cli) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [n...]",
		Short: "Factor a batch of numbers and compare timings",
		Long:  fmt.Sprintf("Factor a batch of numbers in order. Without arguments the default batch %v is used.", factor.DefaultBatch),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers := make([]int64, 0, len(args))
			for _, arg := range args {
				n, err := factor.ParseTarget(arg)
				if err != nil {
					return err
				}
				numbers = append(numbers, n)
			}
			var results []*frenzyv1.FactorizeResponse
			if c.remote() {
				conn, client, err := c.dial()
				if err != nil {
					return err
				}
				defer conn.Close()
				ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
				defer cancel()
				resp, err := client.Batch(ctx, &frenzyv1.BatchRequest{Numbers: numbers})
				if err != nil {
					return fmt.Errorf("batch: %w", err)
				}
				results = resp.Measurements
			} else {
				if len(numbers) == 0 {
					numbers = factor.DefaultBatch
				}
				ms, err := factor.Batch(numbers)
				if err != nil {
					return err
				}
				for _, m := range ms {
					results = append(results, toResult(m))
				}
			}
			return printMeasurements(cmd.OutOrStdout(), results)
		},
	}
}

func (c *cli) hintCmd() *cobra.Command {
	var policyPath string
	cmd := &cobra.Command{
		Use:   "hint <n>",
		Short: "Show the challenge hint for a number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := factor.ParseTarget(args[0])
			if err != nil {
				return err
			}
			var hinter engine.Hinter = engine.RuleHinter{}
			if policyPath != "" {
				opa, err := engine.LoadOPAHinter(cmd.Context(), policyPath, c.logger)
				if err != nil {
					return err
				}
				hinter = opa
			}
			hint := hinter.Hint(cmd.Context(), n)
			c.logger.Debug("hint", zap.Int64("target", n), zap.String("policy", policyPath))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hint)
			return err
		},
	}
	cmd.Flags().StringVar(&policyPath, "policy", "", "Rego hint policy file; empty uses the built-in rules")
	return cmd
}

func toResult(m domain.Measurement) *frenzyv1.FactorizeResponse {
	return &frenzyv1.FactorizeResponse{
		Target:         m.Target,
		Factors:        m.Factors,
		ElapsedSeconds: m.Elapsed,
		Divisions:      m.Divisions,
	}
}

func printMeasurements(out io.Writer, results []*frenzyv1.FactorizeResponse) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tFACTORS\tSECONDS\tDIVISIONS")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%.6f\t%d\n", r.Target, domain.FactorList(r.Factors), r.ElapsedSeconds, r.Divisions)
	}
	return tw.Flush()
}
