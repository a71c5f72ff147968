// longreader turns long text into narrated audio.
//
// Usage:
//
//	longreader read <input.txt> <output.m4a|output.wav> [--voice=<name>]
//	longreader serve
//	longreader version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/longreader/version"
)

var rootFlags struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "longreader",
	Short: "Narrate long text as audio",
	Long: "longreader rewrites text for reading aloud, synthesizes each chunk in parallel,\n" +
		"speeds the speech up and joins the chunks into one audio file.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configFile, "config", "", "path to config.yml (searched for when empty)")
	pf.StringVar(&rootFlags.envFile, "env-file", "", "path to a .env file (searched for when empty)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "log format: console or json (console on a terminal, json otherwise)")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.Get().Version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
