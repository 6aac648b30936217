// Package export writes packing results to report formats: a PDF layout
// with a QR-coded summary, rectangle labels, DXF outlines and an Excel
// benchmark table.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/strippack/internal/model"
)

// rectColor represents an RGB color for a placed rectangle.
type rectColor struct {
	R, G, B int
}

var rectColors = []rectColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	summaryQR    = 45.0
)

// ExportPDF renders the packing on one page, scaled to fit, followed by a
// summary page whose QR code encodes the summary as JSON.
func ExportPDF(path string, sol *model.Solution) error {
	if sol == nil || len(sol.Parameters.Rectangles) == 0 {
		return fmt.Errorf("no rectangles to export")
	}
	if sol.Width() == 0 || sol.Height() == 0 {
		return fmt.Errorf("solution has no placed rectangles")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, sol)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, sol); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the strip and every placed rectangle.
func renderLayoutPage(pdf *fpdf.Fpdf, sol *model.Solution) {
	p := sol.Parameters
	width, height := float64(sol.Width()), float64(sol.Height())
	if p.HeightVariant == model.HeightFixed {
		height = math.Max(height, float64(p.Height))
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: %d rectangles, %s height", sol.SolvedBy, len(p.Rectangles), p.HeightVariant)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Bounding box: %d x %d | Area: %d | Lower bound: %d | Rate: %.4f",
		sol.Width(), sol.Height(), sol.Area(), sol.LowerBound(), sol.Rate())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/width, drawHeight/height)

	canvasW := width * scale
	canvasH := height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Strip background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, r := range p.Rectangles {
		if !r.Placed() {
			continue
		}
		col := rectColors[i%len(rectColors)]
		rw := float64(r.PlacedWidth()) * scale
		rh := float64(r.PlacedHeight()) * scale
		rx := offsetX + float64(r.X)*scale
		// PDF y grows downwards; the strip floor is at the bottom.
		ry := offsetY + canvasH - float64(r.Y)*scale - rh

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(rx, ry, rw, rh, "FD")

		if rw > 15 && rh > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(rw, rh))
			pdf.SetTextColor(0, 0, 0)
			dims := fmt.Sprintf("%dx%d", r.Width, r.Height)
			if r.Rotated {
				dims += " R"
			}
			dimsW := pdf.GetStringWidth(dims)
			if dimsW < rw-2 {
				pdf.SetXY(rx+(rw-dimsW)/2, ry+rh/2-2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	// Empty regions above the skyline
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	for _, rem := range sol.Remnants(1) {
		rh := float64(rem.Height) * scale
		pdf.Rect(offsetX+float64(rem.X)*scale, offsetY+canvasH-float64(rem.Y)*scale-rh, float64(rem.Width)*scale, rh, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)

	drawDimensionAnnotations(pdf, sol.Width(), int(height), offsetX, offsetY, canvasW, canvasH)
}

// drawDimensionAnnotations adds width and height labels outside the strip.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, height int, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d", height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage lists the solution statistics next to a QR code.
func renderSummaryPage(pdf *fpdf.Fpdf, sol *model.Solution) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	summary := Summarize(sol)
	items := []struct {
		label string
		value string
	}{
		{"Solver", summary.Solver},
		{"Height Variant", summary.Variant},
		{"Rotation Allowed", fmt.Sprintf("%t", summary.Rotation)},
		{"Rectangles", fmt.Sprintf("%d", summary.Rectangles)},
		{"Bounding Box", fmt.Sprintf("%d x %d", summary.Width, summary.Height)},
		{"Area", fmt.Sprintf("%d", summary.Area)},
		{"Lower Bound", fmt.Sprintf("%d", summary.LowerBound)},
		{"Waste", fmt.Sprintf("%d", summary.Waste)},
		{"Rate", fmt.Sprintf("%.4f", summary.Rate)},
		{"Solve Time", fmt.Sprintf("%d ms", summary.ElapsedMillis)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	png, err := qrPNG(summary)
	if err != nil {
		return err
	}
	registerPNG(pdf, "qr_summary", png)
	pdf.ImageOptions("qr_summary", pageWidth-marginRight-summaryQR, marginTop+18, summaryQR, summaryQR, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by strippack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
