package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/milk9111/platformgen/config"
	"github.com/milk9111/platformgen/tiledimport"
	"github.com/milk9111/platformgen/tilegrid"
)

var (
	importFile  string
	importLayer string
	importASCII bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a Tiled map layer",
	Long:  `Import one tile layer of a Tiled TMX map and print its classification counts and slope runs.`,
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "TMX file")
	importCmd.Flags().StringVar(&importLayer, "layer", "", "tile layer name (first layer when empty)")
	importCmd.Flags().BoolVar(&importASCII, "ascii", false, "print the imported tiles")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store := tilegrid.NewStore(cfg.TileSize, &asciiRenderer{}, nil)
	fsys := os.DirFS(filepath.Dir(importFile))
	res, err := tiledimport.Import(fsys, filepath.Base(importFile), store, tiledimport.Options{
		Layer:        importLayer,
		DefaultClass: tilegrid.Ground,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "layer %q (%dx%d): %d cells\n", res.Layer, res.Width, res.Height, res.Cells)
	classes := make([]tilegrid.Classification, 0, len(res.Counts))
	for c := range res.Counts {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	for _, c := range classes {
		fmt.Fprintf(out, "  %-18s %d\n", c, res.Counts[c])
	}
	for _, s := range res.Slopes {
		fmt.Fprintf(out, "  slope %s: %s %s length %.1f\n", s.Name, s.Kind, s.Direction, s.Length)
	}
	if importASCII {
		fmt.Fprintln(out)
		fmt.Fprint(out, asciiMap(store))
	}
	return nil
}
