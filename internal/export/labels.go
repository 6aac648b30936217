package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/strippack/internal/model"
)

// Summary is the machine-readable digest printed as a QR code on reports.
type Summary struct {
	Solver        string  `json:"solver"`
	Variant       string  `json:"variant"`
	Rotation      bool    `json:"rotation"`
	Rectangles    int     `json:"rectangles"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Area          int64   `json:"area"`
	LowerBound    int64   `json:"lower_bound"`
	Waste         int64   `json:"waste"`
	Rate          float64 `json:"rate"`
	ElapsedMillis int64   `json:"elapsed_ms"`
}

// Summarize extracts the report digest from a solution.
func Summarize(sol *model.Solution) Summary {
	return Summary{
		Solver:        sol.SolvedBy,
		Variant:       string(sol.Parameters.HeightVariant),
		Rotation:      sol.Parameters.RotationAllowed,
		Rectangles:    len(sol.Parameters.Rectangles),
		Width:         sol.Width(),
		Height:        sol.Height(),
		Area:          sol.Area(),
		LowerBound:    sol.LowerBound(),
		Waste:         sol.WastedArea(),
		Rate:          sol.Rate(),
		ElapsedMillis: sol.Elapsed.Milliseconds(),
	}
}

// RectangleLabel holds the data encoded into each rectangle label's QR code.
type RectangleLabel struct {
	ID      string `json:"id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Rotated bool   `json:"rotated"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabels lists the placed rectangles of a solution in input order.
func CollectLabels(sol *model.Solution) []RectangleLabel {
	var labels []RectangleLabel
	for _, r := range sol.Parameters.Rectangles {
		if !r.Placed() {
			continue
		}
		labels = append(labels, RectangleLabel{
			ID:      r.ID,
			Width:   r.Width,
			Height:  r.Height,
			X:       r.X,
			Y:       r.Y,
			Rotated: r.Rotated,
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels, one per placed
// rectangle, on a 3 x 10 label sheet.
func ExportLabels(path string, sol *model.Solution) error {
	if sol == nil {
		return fmt.Errorf("no solution to generate labels for")
	}
	labels := CollectLabels(sol)
	if len(labels) == 0 {
		return fmt.Errorf("no rectangles placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		x := labelMarginLeft + float64(posOnPage%labelCols)*labelWidth
		y := labelMarginTop + float64(posOnPage/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info RectangleLabel) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	png, err := qrPNG(info)
	if err != nil {
		return err
	}
	imgName := "qr_" + info.ID
	registerPNG(pdf, imgName, png)
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, info.ID, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("@ (%d, %d)", info.X, info.Y), "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// qrPNG encodes v as JSON inside a QR code image.
func qrPNG(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

func registerPNG(pdf *fpdf.Fpdf, name string, png []byte) {
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
}
