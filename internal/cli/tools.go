package cli

import (
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List registered tools and their schemas",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	type toolInfo struct {
		Name   string      `json:"name"`
		Schema interface{} `json:"schema,omitempty"`
	}

	var tools []toolInfo
	for _, name := range rt.registry.RegisteredTools() {
		tools = append(tools, toolInfo{
			Name:   name,
			Schema: rt.registry.ToolSchema(name),
		})
	}
	return printJSON(cmd, tools)
}
