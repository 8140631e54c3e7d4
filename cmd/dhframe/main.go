package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dhframe/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
     _ _      __
  __| | |__  / _|_ __ __ _ _ __ ___   ___
 / _' | '_ \| |_| '__/ _' | '_ ' _ \ / _ \
| (_| | | | |  _| | | (_| | | | | | |  __/
 \__,_|_| |_|_| |_|  \__,_|_| |_| |_|\___|
`

// errorFormatFlag selects how a failed command reports its error.
const errorFormatFlag = "error-format"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		format, _ := rootCmd.PersistentFlags().GetString(errorFormatFlag)
		printError(os.Stderr, errors.FromError(err), format)
		os.Exit(1)
	}
}

// printError writes err as JSON, as a single line, or as the full
// colored report.
func printError(w io.Writer, err *errors.Error, format string) {
	switch format {
	case "json":
		fmt.Fprintln(w, err.FormatJSON())
	case "compact":
		fmt.Fprintln(w, err.FormatCompact())
	default:
		errors.Fprint(w, err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dhframe",
		Short: "Embed live tables and charts in rerun-based pages",
		Long: `dhframe serves pages that embed widgets from a widget backend
as iframes.

Every page view reruns the page from the top. Objects displayed
during a rerun are bound in the backend under fresh identifiers
and removed again when the same session reruns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String(errorFormatFlag, "text", "Error output format (text, compact, json)")

	rootCmd.AddCommand(
		serveCmd(),
		urlCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
