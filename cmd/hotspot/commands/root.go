// Package commands implements the CLI commands for hotspot.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hotspot/internal/app"
	"go.trai.ch/hotspot/internal/build"
	"go.trai.ch/hotspot/internal/core/domain"
)

// CLI represents the command line interface for hotspot.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, files []string, opts app.RunOptions) error
	List(ctx context.Context, opts app.CommonOptions) error
	Clean(ctx context.Context, opts app.CommonOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "hotspot",
		Short:         "A tiered execution cache for compiled code units",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	// -v belongs to --verbose, so the version flag is declared without a shorthand.
	rootCmd.Flags().Bool("version", false, "Print the application version")

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", domain.DefaultConfigFile, "Path to the configuration file")
	flags.Bool("json", false, "Write logs as JSON")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("store", "", "Store driver: sqlite, file or memory (overrides config)")
	flags.String("store-path", "", "Store location (overrides config)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func commonOptions(cmd *cobra.Command) app.CommonOptions {
	configPath, _ := cmd.Flags().GetString("config")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	storeDriver, _ := cmd.Flags().GetString("store")
	storePath, _ := cmd.Flags().GetString("store-path")

	return app.CommonOptions{
		ConfigPath:  configPath,
		StoreDriver: storeDriver,
		StorePath:   storePath,
		Verbose:     verbose,
		JSON:        jsonLogs,
	}
}
