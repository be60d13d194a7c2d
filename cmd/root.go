package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/teal-bauer/aemctl/api"
	"github.com/teal-bauer/aemctl/internal/config"
	"github.com/teal-bauer/aemctl/internal/logging"
	"github.com/teal-bauer/aemctl/internal/output"
)

var rootCmd = &cobra.Command{
	Use:   "aemctl",
	Short: "CLI for Adobe Experience Manager",
	Long: `aemctl is a command-line interface for browsing and managing content in
Adobe Experience Manager over the Sling HTTP API.

Configure credentials once; they are stored in ~/.config/aemctl/config.yaml:
  aemctl config set --username admin --password admin
  aemctl config set --base-url https://author.example.com

The base URL defaults to http://localhost:4502.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig  string
	flagJSON    bool
	flagVerbose bool
)

func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the command tree with args and returns the exit status
func Run(args []string, stdout, stderr io.Writer) int {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "✗ Error: %s\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.config/aemctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output raw JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log HTTP requests to stderr")
}

// resetFlags puts every flag back to its default so each Run starts clean
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func loadStore() (*config.Store, error) {
	return config.NewStore(config.NewFileBackend(flagConfig))
}

func newClient(cmd *cobra.Command) (*api.Client, error) {
	store, err := loadStore()
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{Verbose: flagVerbose, Output: cmd.ErrOrStderr()})
	return api.NewClient(store.All(), api.WithLogger(logger))
}

func newOutput(cmd *cobra.Command) *output.Output {
	return output.New(flagJSON, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
