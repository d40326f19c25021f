// fmtshift rewrites C printf-family calls into Rust formatting macro
// invocations, applying casts to the arguments so C varargs promotion
// behavior is preserved.

package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fmtshift",
	Short: "Rewrite C printf-family calls as Rust formatting macros",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		v, _ := cmd.Root().PersistentFlags().GetCount("verbose")
		setupLogger(v)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().Bool("keep-unreferenced", false, "pass arguments no specifier consumes through unchanged")
	rootCmd.AddCommand(convertFormatArgsCmd)
	rootCmd.AddCommand(convertPrintfsCmd)
	rootCmd.AddCommand(dumpCmd)
}

func setupLogger(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
