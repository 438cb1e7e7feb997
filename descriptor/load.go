package descriptor

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML document from fsys and decodes it into T.
func Load[T any](fsys fs.FS, name string) (T, error) {
	var zero T
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return zero, fmt.Errorf("descriptor: load %s: %w", name, err)
	}

	var doc T
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return zero, fmt.Errorf("descriptor: unmarshal %s: %w", name, err)
	}

	return doc, nil
}

// ParseStage decodes a stage document. Heightmap paths are left unresolved.
func ParseStage(data []byte) (*Stage, error) {
	var stage Stage
	if err := yaml.Unmarshal(data, &stage); err != nil {
		return nil, fmt.Errorf("descriptor: unmarshal stage: %w", err)
	}
	return &stage, nil
}

// LoadStage decodes the stage named name from fsys and resolves heightmap
// images relative to it.
func LoadStage(fsys fs.FS, name string) (*Stage, error) {
	stage, err := Load[Stage](fsys, name)
	if err != nil {
		return nil, err
	}
	dir := path.Dir(name)
	for i := range stage.Layers {
		hm := &stage.Layers[i].Heightmap
		if hm.Path == "" || !hm.Empty() {
			continue
		}
		rows, err := loadHeightmapImage(fsys, path.Join(dir, hm.Path))
		if err != nil {
			return nil, fmt.Errorf("descriptor: layer %q: %w", stage.Layers[i].Name, err)
		}
		hm.Rows = rows
	}
	return &stage, nil
}

// LoadStageFile loads a stage from disk.
func LoadStageFile(filename string) (*Stage, error) {
	return LoadStage(os.DirFS(filepath.Dir(filename)), filepath.Base(filename))
}

func loadHeightmapImage(fsys fs.FS, name string) ([][]float64, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open heightmap %s: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode heightmap %s: %w", name, err)
	}
	b := img.Bounds()
	rows := make([][]float64, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := make([]float64, b.Dx())
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			row[x-b.Min.X] = float64(g.Y) / 255
		}
		rows[y-b.Min.Y] = row
	}
	return rows, nil
}
