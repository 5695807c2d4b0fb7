// Package cli is the lensfinder command line. It drives the same services
// as the HTTP API and prints results as tables or JSON.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/lensfinder/backend/config"
	"github.com/lensfinder/backend/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Output formats
const (
	TableOut = "table"
	JSONOut  = "json"
)

// Version is set by the linker at build time
var Version = "dev"

// options holds the flags shared by every command
type options struct {
	output  string
	noColor bool
	verbose bool
	token   string
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "lensfinder",
		Short: "Convert spectacle prescriptions to contact lens powers and find lenses that fit.",
		Long: `LensFinder transposes a glasses prescription to the corneal plane and
matches the result against the contact lens catalog.

Examples:
  # Convert a prescription at the default 12mm vertex distance
  lensfinder convert --right-sphere=-5 --right-cyl=-1 --right-axis=180 --left-sphere=-4.5

  # Find lenses for a presbyopic patient
  lensfinder match --right-sphere=-2 --left-sphere=-2.25 --add=2 --dominant=right

  # List the monthly lenses as JSON
  lensfinder lenses --modality=monthly --output=json`,
		Version:            Version,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != TableOut && opts.output != JSONOut {
				return fmt.Errorf("output must be %q or %q, got %q", TableOut, JSONOut, opts.output)
			}
			if opts.noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
				color.NoColor = true
			}
			if opts.verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", TableOut, "output format: table or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log catalog and matching activity to stderr")
	flags.StringVar(&opts.token, "token", "", "bearer token forwarded to the lens inventory (default LENSFINDER_CATALOG_TOKEN)")

	root.AddCommand(
		newConvertCommand(opts),
		newMatchCommand(opts),
		newLensesCommand(opts),
		newServeCommand(),
	)
	return root
}

// catalogContext attaches the caller's token, if any, for the inventory client
func (o *options) catalogContext(ctx context.Context, cfg *config.Config) context.Context {
	token := o.token
	if token == "" {
		token = cfg.Catalog.Token
	}
	if token == "" {
		return ctx
	}
	return domain.ContextWithToken(ctx, token)
}
