package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/indywasm/indywasm/abi"
	"github.com/indywasm/indywasm/bridgegen"
)

var errCheckFailed = errors.New("declarations failed generation checks")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bridgegen",
		Short:         "Generate Go bindings for asynchronous SDK functions",
		SilenceUsage:  true,
	}
	root.AddCommand(generateCmd(), checkCmd())
	return root
}

func generateCmd() *cobra.Command {
	var input, output, manifest, pkg string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render bindings for every declaration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			decls, err := loadDecls(input, pkg)
			if err != nil {
				return err
			}
			out, err := bridgegen.Generate(decls)
			if err != nil {
				printErrors(cmd, err)
				return errCheckFailed
			}
			if err := os.WriteFile(output, out.Source, 0o644); err != nil {
				return fmt.Errorf("writing bindings: %w", err)
			}
			if manifest != "" {
				data, err := out.Manifest.Marshal()
				if err != nil {
					return err
				}
				if err := os.WriteFile(manifest, data, 0o644); err != nil {
					return fmt.Errorf("writing manifest: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d entry points into %s\n", len(out.Manifest.Exports), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "declaration file (.yaml, .json or .toml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "generated Go file")
	cmd.Flags().StringVar(&manifest, "manifest", "", "also write the export manifest as YAML")
	cmd.Flags().StringVar(&pkg, "package", "", "package name (default: from the declaration file)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func checkCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the generation checks without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			decls, err := loadDecls(input, "")
			if err != nil {
				return err
			}
			sigs, err := bridgegen.Check(decls)
			if err != nil {
				printErrors(cmd, err)
				return errCheckFailed
			}
			for _, sig := range sigs {
				fmt.Fprintln(cmd.OutOrStdout(), sig.Usage())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "declaration file (.yaml, .json or .toml)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func loadDecls(path, pkg string) (*abi.Declarations, error) {
	decls, err := abi.Load(path)
	if err != nil {
		return nil, err
	}
	if pkg != "" {
		decls.Package = pkg
		if err := decls.Validate(); err != nil {
			return nil, err
		}
	}
	return decls, nil
}

func printErrors(cmd *cobra.Command, err error) {
	for _, e := range multierr.Errors(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
}
