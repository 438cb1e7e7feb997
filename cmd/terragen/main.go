// Command terragen validates, generates and imports stages without a window.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/stages"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "terragen",
	Short: "Headless terrain and slope generation",
	Long:  `terragen validates stage descriptors, generates them against a Chipmunk space and imports Tiled maps.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "engine config YAML (defaults when empty)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(stagesCmd)
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the bundled stages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range stages.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// loadStage reads a stage from file, or the bundled stage called name.
func loadStage(file, name string) (*descriptor.Stage, error) {
	switch {
	case file != "" && name != "":
		return nil, errors.New("use either --file or --stage, not both")
	case file != "":
		return descriptor.LoadStageFile(file)
	case name != "":
		return stages.Load(name)
	}
	return nil, errors.New("one of --file or --stage is required")
}
