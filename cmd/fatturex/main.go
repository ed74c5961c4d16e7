// Command fatturex converts, validates, diffs, edits and renders Italian
// electronic invoices.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	fx "github.com/reoring/fatturex"
	"github.com/reoring/fatturex/codec"
	"github.com/reoring/fatturex/p7m"
	"github.com/reoring/fatturex/render"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := &cobra.Command{
		Use:           "fatturex",
		Short:         "work with Italian electronic invoices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		convertCmd(),
		validateCmd(),
		diffCmd(),
		editCmd(),
		extractCmd(),
		renderCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func load(path string) (*fx.Document, error) {
	c, err := codec.ForFilename(path)
	if err != nil {
		return nil, err
	}
	return c.Load(path)
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "convert an invoice between the supported formats",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(args[0])
			if err != nil {
				return err
			}
			out, err := codec.ForFilename(args[1])
			if err != nil {
				return err
			}
			return codec.Save(out, doc, args[1])
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "run the published business rules and print every finding",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				doc, err := load(path)
				if err != nil {
					return err
				}
				diags := doc.Validate()
				for _, d := range diags {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, d.String())
				}
				if diags.HasErrors() {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
}

func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <first> <second>",
		Short: "compare two invoices field by field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := load(args[0])
			if err != nil {
				return err
			}
			second, err := load(args[1])
			if err != nil {
				return err
			}
			entries, err := first.Diff(second)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e.String())
			}
			if len(entries) > 0 {
				return fmt.Errorf("invoices differ")
			}
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "edit an invoice in $EDITOR, in its own format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.ForFilename(args[0])
			if err != nil {
				return err
			}
			doc, err := c.Load(args[0])
			if err != nil {
				return err
			}
			edited, err := codec.Edit(c, doc)
			if err != nil {
				return err
			}
			if edited == nil {
				log.Info().Str("path", args[0]).Msg("not changed")
				return nil
			}
			return codec.Save(c, edited, args[0])
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <src.p7m> <dst.xml>",
		Short: "extract the signed XML payload from a p7m envelope",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := p7m.Load(args[0])
			if err != nil {
				return err
			}
			return os.WriteFile(args[1], env.Payload(), 0o644)
		},
	}
}

func renderCmd() *cobra.Command {
	var stylesheet string
	cmd := &cobra.Command{
		Use:   "render <src> <dst.pdf>",
		Short: "render an invoice to PDF through an XSLT stylesheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(args[0])
			if err != nil {
				return err
			}
			r := &render.Renderer{}
			_, err = r.PDF(cmd.Context(), stylesheet, doc, args[1])
			return err
		},
	}
	cmd.Flags().StringVar(&stylesheet, "stylesheet", "fatturaordinaria_v1.2.1.xsl", "XSLT stylesheet used for rendering")
	return cmd
}
