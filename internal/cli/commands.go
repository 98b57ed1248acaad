package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Vaibhavs10/llm-mem-finder/internal/config"
	"github.com/Vaibhavs10/llm-mem-finder/internal/registry"
	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

// resolveConcurrency bounds parallel registry lookups for `resolve`.
const resolveConcurrency = 4

func newEstimateCmd(a *app) *cobra.Command {
	var (
		params   float64
		quant    string
		tokens   int
		overhead float64
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:     "estimate",
		Short:   "Estimate memory from a parameter count and quantization",
		Example: "  memfinder estimate --params 7 --quant 4-bit\n  memfinder estimate --params 7 --quant fp16 --context 4096",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(false)
			if err != nil {
				return err
			}
			req := types.EstimateRequest{ParametersB: params, Quantization: quant}
			if cmd.Flags().Changed("context") {
				req.ContextTokens = &tokens
			}
			if cmd.Flags().Changed("overhead") {
				req.OSOverheadGB = &overhead
			}
			resp, err := svc.Estimate(req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.3f GB\n", resp.TotalGB)
			return err
		},
	}
	cmd.Flags().Float64Var(&params, "params", 0, "Parameter count in billions")
	cmd.Flags().StringVar(&quant, "quant", "", "Quantization label (see `memfinder quants`)")
	cmd.Flags().IntVar(&tokens, "context", config.DefaultContextTokens, "Context window in tokens")
	cmd.Flags().Float64Var(&overhead, "overhead", config.DefaultOSOverheadGB, "OS overhead in GB")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full breakdown as JSON")
	_ = cmd.MarkFlagRequired("params")
	_ = cmd.MarkFlagRequired("quant")
	return cmd
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		tokens   int
		overhead float64
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:     "resolve <model-id>...",
		Short:   "Resolve registry models and estimate their memory",
		Example: "  memfinder resolve meta-llama/Llama-2-7b-hf TheBloke/Llama-2-13B-GPTQ",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(true)
			if err != nil {
				return err
			}
			base := types.ResolveRequest{}
			if cmd.Flags().Changed("context") {
				base.ContextTokens = &tokens
			}
			if cmd.Flags().Changed("overhead") {
				base.OSOverheadGB = &overhead
			}

			results := make([]types.ResolveResponse, len(args))
			errs := make([]error, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(resolveConcurrency)
			for i, id := range args {
				i, id := i, id
				g.Go(func() error {
					req := base
					req.Model = id
					results[i], errs[i] = svc.Resolve(ctx, req)
					return nil
				})
			}
			_ = g.Wait()

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for i, id := range args {
					if errs[i] != nil {
						fmt.Fprintf(tw, "%s\terror: %v\n", id, errs[i])
						continue
					}
					r := results[i]
					fmt.Fprintf(tw, "%s\t%.3f GB\tparams=%gB (%s)\tquant=%s (%s)\n",
						id, r.TotalGB, r.ParametersB, r.ParametersSource, r.Quantization, r.QuantizationSource)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			var failed int
			for _, err := range errs {
				if err != nil {
					a.log.Debug().Err(err).Msg("resolve failed")
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d models could not be resolved", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&tokens, "context", config.DefaultContextTokens, "Context window in tokens")
	cmd.Flags().Float64Var(&overhead, "overhead", config.DefaultOSOverheadGB, "OS overhead in GB")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print responses as JSON (failed entries are zero values)")
	return cmd
}

func newQuantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quants",
		Short: "List supported quantization levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(false)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tBITS")
			for _, q := range svc.Quantizations() {
				fmt.Fprintf(tw, "%s\t%d\n", q.Label, q.Bits)
			}
			return tw.Flush()
		},
	}
}

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models found in the local models directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Provider != config.ProviderLocal {
				return errors.New("models requires provider \"local\" (set MEMFINDER_PROVIDER=local and MEMFINDER_MODELS_DIR)")
			}
			d, err := registry.LoadDir(a.cfg.ModelsDir)
			if err != nil {
				return err
			}
			for _, id := range d.IDs() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
