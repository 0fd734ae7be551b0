package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indywasm/indywasm/config"
	"github.com/indywasm/indywasm/indy"
	"github.com/indywasm/indywasm/logging"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "indyctl",
		Short:        "Call SDK functions through the async bridge",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(configPath); err != nil {
				return err
			}
			if logger, err = logging.New(cfg.Logging); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: built-in defaults and INDYWASM_ environment)")

	root.AddCommand(exportsCmd(), callCmd(), runCmd())
	return root
}

func exportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exports",
		Short: "List the generated entry points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSYMBOL\tSHAPE\tUSAGE")
			for _, e := range indy.Exports {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Symbol, e.Shape, e.Usage)
			}
			return w.Flush()
		},
	}
}

func callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <entry> [args...]",
		Short: "Call one entry point and print its result",
		Long: "Call one entry point and print its result, one value per line.\n\n" +
			"ByteBuffer arguments are text, or hex:<digits>, b58:<base58> or @<file>.\n" +
			"ByteBuffer results are printed as b58:<base58>.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			v, err := s.call(cmd.Context(), args[0], args[1:])
			if err != nil {
				return closeWith(cmd, s, err)
			}
			printResult(cmd, v)
			return s.close(cmd.Context())
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a sequence of calls against one library instance",
		Long: "Run a sequence of calls against one library instance. A script is a YAML list of\n" +
			"steps {call, args, save}; ${name} in an argument expands to a saved result and\n" +
			"${name.1} to the second value of a two-value result.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading script: %w", err)
			}
			steps, err := parseScript(data)
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if err := s.run(cmd.Context(), steps, cmd.OutOrStdout()); err != nil {
				return closeWith(cmd, s, err)
			}
			return s.close(cmd.Context())
		},
	}
}

func printResult(cmd *cobra.Command, v any) {
	fields := formatResult(v)
	if len(fields) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(fields, "\n"))
}

// closeWith closes the session after a failed call and returns the call's
// error; a close failure is only logged.
func closeWith(cmd *cobra.Command, s *session, err error) error {
	if cerr := s.close(cmd.Context()); cerr != nil {
		logger.Warn("closing library", zap.Error(cerr))
	}
	return err
}
