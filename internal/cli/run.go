package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harun/kestrel/pkg/planner"
)

var showMetrics bool

var runCmd = &cobra.Command{
	Use:   "run <plan.json>",
	Short: "Execute a plan file",
	Long: `Execute a JSON plan file against the registered tools and print the
structured execution result. The command exits non-zero when the plan
does not complete successfully.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&showMetrics, "show-metrics", false, "print the tool metrics snapshot after execution")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read plan file: %w", err)
	}
	plan, err := planner.ParsePlan(data)
	if err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	result := rt.executor.Execute(cmd.Context(), plan)

	if err := printJSON(cmd, result); err != nil {
		return err
	}
	if showMetrics {
		if err := printJSON(cmd, rt.registry.Metrics()); err != nil {
			return err
		}
	}

	if !result.Success {
		return fmt.Errorf("plan %s failed with %d error(s)", result.PlanID, len(result.Errors))
	}
	return nil
}

func printJSON(cmd *cobra.Command, value interface{}) error {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
