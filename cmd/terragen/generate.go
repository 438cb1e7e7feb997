package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/platformgen/config"
	"github.com/milk9111/platformgen/events"
	"github.com/milk9111/platformgen/level"
	"github.com/milk9111/platformgen/physics"
)

var (
	generateFile  string
	generateStage string
	generateASCII bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a stage headlessly",
	Long:  `Generate every layer, segment and slope of a stage against a Chipmunk space and print what was built.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "stage YAML file")
	generateCmd.Flags().BoolVar(&generateASCII, "ascii", false, "print the generated tiles")
	generateCmd.Flags().StringVarP(&generateStage, "stage", "s", "", "bundled stage name")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	st, err := loadStage(generateFile, generateStage)
	if err != nil {
		return err
	}

	space := physics.NewSpace(cfg.GravityVector(), cfg.Physics.Iterations)
	warnings := &events.Queue{}
	stage, err := level.New(cfg, space, &asciiRenderer{}, warnings)
	if err != nil {
		return err
	}
	if err := stage.Load(*st); err != nil {
		return err
	}
	if err := stage.Flush(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, evt := range warnings.Drain() {
		if evt.Kind == events.Warning {
			fmt.Fprintf(out, "warning: %s\n", evt.Message)
		}
	}

	batches, processed := stage.Scheduler().Stats()
	fmt.Fprintf(out, "stage %q\n", st.Name)
	fmt.Fprintf(out, "  requests: %d in %d batches\n", processed, batches)
	fmt.Fprintf(out, "  cells:    %d\n", stage.Store().Len())
	fmt.Fprintf(out, "  shapes:   %d\n", space.ShapeCount())
	fmt.Fprintf(out, "  slopes:   %d\n", stage.Slopes().Len())
	fmt.Fprintf(out, "  hazards:  %d\n", len(stage.Hazards()))
	fmt.Fprintf(out, "  dynamic:  %d\n", len(stage.Dynamic()))
	if generateASCII {
		fmt.Fprintln(out)
		fmt.Fprint(out, asciiMap(stage.Store()))
	}
	return nil
}
