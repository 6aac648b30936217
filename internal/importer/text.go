package importer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/piwi3910/strippack/internal/model"
)

// Keys of the plain-text problem format.
const (
	keyHeight    = "container height"
	keyRotations = "rotations allowed"
	keyCount     = "number of rectangles"

	placementHeader = "placement of rectangles"
)

// ParseInput reads a problem in the plain-text format:
//
//	container height: fixed 22
//	rotations allowed: no
//	number of rectangles: 3
//	12 8
//	10 9
//	4 4
//
// The height line may also read "container height: free". Blank lines are
// ignored.
func ParseInput(r io.Reader) (model.Parameters, error) {
	lines, err := readLines(r)
	if err != nil {
		return model.Parameters{}, err
	}
	var params model.Parameters
	next := 0
	field := func(key string) (string, error) {
		if next >= len(lines) {
			return "", fmt.Errorf("missing %q line", key)
		}
		line := lines[next]
		next++
		k, v, ok := strings.Cut(line.text, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), key) {
			return "", fmt.Errorf("line %d: expected %q, got %q", line.num, key, line.text)
		}
		return strings.TrimSpace(v), nil
	}

	height, err := field(keyHeight)
	if err != nil {
		return params, err
	}
	parts := strings.Fields(strings.ToLower(height))
	switch {
	case len(parts) == 2 && parts[0] == string(model.HeightFixed):
		h, err := strconv.Atoi(parts[1])
		if err != nil || h <= 0 {
			return params, fmt.Errorf("invalid fixed height %q", parts[1])
		}
		params.HeightVariant = model.HeightFixed
		params.Height = h
	case len(parts) == 1 && parts[0] == string(model.HeightFree):
		params.HeightVariant = model.HeightFree
	default:
		return params, fmt.Errorf("invalid container height %q", height)
	}

	rotations, err := field(keyRotations)
	if err != nil {
		return params, err
	}
	params.RotationAllowed = strings.HasPrefix(strings.ToLower(rotations), "y")

	countText, err := field(keyCount)
	if err != nil {
		return params, err
	}
	count, err := strconv.Atoi(countText)
	if err != nil || count <= 0 {
		return params, fmt.Errorf("number of rectangles must be a positive integer, got %q", countText)
	}

	params.Rectangles = make([]model.Rectangle, 0, count)
	for i := 0; i < count; i++ {
		if next >= len(lines) {
			return params, fmt.Errorf("expected %d rectangles, got %d", count, i)
		}
		line := lines[next]
		next++
		fields := strings.Fields(line.text)
		if len(fields) != 2 {
			return params, fmt.Errorf("line %d: expected \"width height\", got %q", line.num, line.text)
		}
		w, errW := strconv.Atoi(fields[0])
		h, errH := strconv.Atoi(fields[1])
		if errW != nil || errH != nil {
			return params, fmt.Errorf("line %d: invalid size %q", line.num, line.text)
		}
		params.Rectangles = append(params.Rectangles, model.NewRectangle(w, h))
	}

	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("invalid input: %w", err)
	}
	return params, nil
}

type numberedLine struct {
	num  int
	text string
}

func readLines(r io.Reader) ([]numberedLine, error) {
	var lines []numberedLine
	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		lines = append(lines, numberedLine{num: num, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

// FormatOutput echoes the problem followed by the placement of every
// rectangle in input order: "x y", or "yes|no x y" when rotation is allowed.
// A free-height problem is echoed as free; the achieved height follows from
// the placements.
func FormatOutput(w io.Writer, sol *model.Solution) error {
	if sol == nil {
		return fmt.Errorf("no solution to format")
	}
	p := sol.Parameters
	bw := bufio.NewWriter(w)
	writeProblem(bw, p)

	fmt.Fprintln(bw, placementHeader)
	for _, r := range p.Rectangles {
		if p.RotationAllowed {
			fmt.Fprintf(bw, "%s %d %d\n", yesNo(r.Rotated), r.X, r.Y)
		} else {
			fmt.Fprintf(bw, "%d %d\n", r.X, r.Y)
		}
	}
	return bw.Flush()
}

// FormatInput writes params in the format read by ParseInput.
func FormatInput(w io.Writer, params model.Parameters) error {
	bw := bufio.NewWriter(w)
	writeProblem(bw, params)
	return bw.Flush()
}

func writeProblem(w io.Writer, p model.Parameters) {
	if p.HeightVariant == model.HeightFixed {
		fmt.Fprintf(w, "%s: fixed %d\n", keyHeight, p.Height)
	} else {
		fmt.Fprintf(w, "%s: free\n", keyHeight)
	}
	fmt.Fprintf(w, "%s: %s\n", keyRotations, yesNo(p.RotationAllowed))
	fmt.Fprintf(w, "%s: %d\n", keyCount, len(p.Rectangles))
	for _, r := range p.Rectangles {
		fmt.Fprintf(w, "%d %d\n", r.Width, r.Height)
	}
}

// ParseOutput reads the placements written by FormatOutput back onto a
// copy of params. It is used to check listings produced by other tools.
func ParseOutput(r io.Reader, params model.Parameters) (*model.Solution, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	start := -1
	for i, line := range lines {
		if strings.EqualFold(line.text, placementHeader) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("missing %q line", placementHeader)
	}

	p := params.Copy()
	placements := lines[start:]
	if len(placements) != len(p.Rectangles) {
		return nil, fmt.Errorf("expected %d placements, got %d", len(p.Rectangles), len(placements))
	}
	for i, line := range placements {
		fields := strings.Fields(line.text)
		rotated := false
		if p.RotationAllowed {
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: expected \"yes|no x y\", got %q", line.num, line.text)
			}
			rotated = strings.EqualFold(fields[0], "yes")
			fields = fields[1:]
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"x y\", got %q", line.num, line.text)
		}
		x, errX := strconv.Atoi(fields[0])
		y, errY := strconv.Atoi(fields[1])
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("line %d: invalid position %q", line.num, line.text)
		}
		p.Rectangles[i].Place(x, y, rotated)
	}
	return model.NewSolution(p, "listing"), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
