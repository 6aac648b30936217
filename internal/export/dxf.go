package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/strippack/internal/model"
)

const (
	layerStrip      = "STRIP"
	layerRectangles = "RECTANGLES"
)

// ExportDXF writes the outline of every placed rectangle as four LINE
// entities, plus the strip boundary on its own layer. Drawing units equal
// packing units with y pointing up.
func ExportDXF(path string, sol *model.Solution) error {
	if sol == nil || len(sol.Parameters.Rectangles) == 0 {
		return fmt.Errorf("no rectangles to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(layerStrip, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", layerStrip, err)
	}
	height := sol.Height()
	if sol.Parameters.HeightVariant == model.HeightFixed {
		height = max(height, sol.Parameters.Height)
	}
	if err := box(d, 0, 0, float64(sol.Width()), float64(height)); err != nil {
		return err
	}

	if _, err := d.AddLayer(layerRectangles, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", layerRectangles, err)
	}
	for _, r := range sol.Parameters.Rectangles {
		if !r.Placed() {
			continue
		}
		if err := box(d, float64(r.X), float64(r.Y), float64(r.PlacedWidth()), float64(r.PlacedHeight())); err != nil {
			return fmt.Errorf("failed to draw rectangle %s: %w", r.ID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// box draws a closed axis-aligned rectangle on the current layer.
func box(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [4][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
