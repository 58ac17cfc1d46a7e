package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/hotspot/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Run source files through the hotspot cache",
		Long: "Run each source file repeatedly. The first runs compile and execute the code; " +
			"once a unit is hot its cached output is served. Use - to read a unit from stdin.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			repeat, _ := cmd.Flags().GetInt("repeat")
			parallel, _ := cmd.Flags().GetInt("parallel")
			warmup, _ := cmd.Flags().GetInt("warmup")
			stats, _ := cmd.Flags().GetBool("stats")
			metricsOut, _ := cmd.Flags().GetString("metrics-out")

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				CommonOptions: commonOptions(cmd),
				Repeat:        repeat,
				Parallel:      parallel,
				Warmup:        warmup,
				ShowStats:     stats,
				MetricsOut:    metricsOut,
			})
		},
	}
	cmd.Flags().IntP("repeat", "r", app.DefaultRepeat, "Number of runs per file")
	cmd.Flags().IntP("parallel", "p", 1, "Number of files run concurrently (0 for unlimited)")
	cmd.Flags().Int("warmup", 0, "Executions before cached output is served (overrides config)")
	cmd.Flags().Bool("stats", false, "Print a summary of executed and optimized runs")
	cmd.Flags().String("metrics-out", "", "Write Prometheus metrics to this file after the runs")
	return cmd
}
