package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	validateFile  string
	validateStage string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a stage file",
	Long:  `Load a stage file, print every automatic repair and fail if any descriptor cannot be repaired.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "stage YAML file")
	validateCmd.Flags().StringVarP(&validateStage, "stage", "s", "", "bundled stage name")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	stage, err := loadStage(validateFile, validateStage)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ws := stage.Normalize()
	for _, w := range ws {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if err := stage.Validate(); err != nil {
		return fmt.Errorf("%s is invalid: %w", stage.Name, err)
	}
	fmt.Fprintf(out, "%s: %d layers, %d segments, %d slopes, %d repairs\n",
		stage.Name, len(stage.Layers), len(stage.Segments), len(stage.Slopes), len(ws))
	return nil
}
