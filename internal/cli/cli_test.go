package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoSquares = `container height: fixed 10
rotations allowed: no
number of rectangles: 2
10 10
10 10
`

// execute runs the root command with a config path inside dir and returns
// what the command printed.
func execute(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(&out, io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestGenerateSolveCheck(t *testing.T) {
	dir := t.TempDir()
	problem := filepath.Join(dir, "problem.txt")
	listing := filepath.Join(dir, "listing.txt")

	_, err := execute(t, dir, "", "generate", "--seed", "3", "-o", problem)
	require.NoError(t, err)

	_, err = execute(t, dir, "", "solve", problem, "-s", "maxrects", "-o", listing)
	require.NoError(t, err)

	data, err := os.ReadFile(listing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "placement of rectangles")

	out, err := execute(t, dir, "", "check", problem, listing)
	require.NoError(t, err)
	assert.Contains(t, out, "valid:")
}

func TestSolveFromStdin(t *testing.T) {
	out, err := execute(t, t.TempDir(), twoSquares, "solve", "-s", "shelf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, twoSquares), "listing should echo the problem:\n%s", out)
	assert.Contains(t, out, "placement of rectangles\n0 0\n10 0\n")
}

func TestSolveWritesReports(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "layout.pdf")
	dxf := filepath.Join(dir, "layout.dxf")
	labels := filepath.Join(dir, "labels.pdf")

	_, err := execute(t, dir, twoSquares, "solve", "-s", "maxrects", "--pdf", pdf, "--dxf", dxf, "--labels", labels)
	require.NoError(t, err)
	for _, path := range []string{pdf, dxf, labels} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0), path)
	}
}

func TestSolveUnsupportedVariant(t *testing.T) {
	free := strings.Replace(twoSquares, "fixed 10", "free", 1)
	_, err := execute(t, t.TempDir(), free, "solve", "-s", "maxrects")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot pack")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[search]\nallowed_time_ms = 50\n"), 0644))
	out, err := execute(t, dir, free, "solve", "-s", "free:maxrects")
	require.NoError(t, err)
	assert.Contains(t, out, "container height: free")
}

func TestSolveUnknownStrategy(t *testing.T) {
	_, err := execute(t, t.TempDir(), twoSquares, "solve", "-s", "simulated-annealing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestSolveCSV(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "sizes.csv")
	require.NoError(t, os.WriteFile(csv, []byte("Width,Height,Qty\n10,5,2\n4,4,1\n"), 0644))

	_, err := execute(t, dir, "", "solve", csv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--height")

	out, err := execute(t, dir, "", "solve", csv, "-s", "shelf", "--height", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "number of rectangles: 3")

	out, err = execute(t, dir, "", "solve", csv, "-s", "shelf", "--free", "--rotate")
	require.NoError(t, err)
	assert.Contains(t, out, "container height: free")
	assert.Contains(t, out, "rotations allowed: yes")
}

func TestCheckReportsOverlap(t *testing.T) {
	dir := t.TempDir()
	problem := filepath.Join(dir, "problem.txt")
	listing := filepath.Join(dir, "listing.txt")
	require.NoError(t, os.WriteFile(problem, []byte(twoSquares), 0644))
	require.NoError(t, os.WriteFile(listing, []byte(twoSquares+"placement of rectangles\n0 0\n5 0\n"), 0644))

	out, err := execute(t, dir, "", "check", problem, listing)
	require.Error(t, err)
	assert.Contains(t, out, "overlap")
}

func TestBench(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "bench.xlsx")

	out, err := execute(t, dir, "", "bench", "-n", "2", "-s", "shelf,maxrects", "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "shelf")
	assert.Contains(t, out, "maxrects")
	assert.Contains(t, out, "#2")

	_, err = os.Stat(xlsx)
	assert.NoError(t, err)
}

func TestBenchUsesConfiguredStrategies(t *testing.T) {
	dir := t.TempDir()
	config := "strategies = [\"shelf\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0644))

	out, err := execute(t, dir, "", "bench", "-n", "1", "--free")
	require.NoError(t, err)
	assert.Contains(t, out, "shelf")
	assert.NotContains(t, out, "maxrects")
}

func TestBenchRejectsBadCount(t *testing.T) {
	_, err := execute(t, t.TempDir(), "", "bench", "-n", "0")
	require.Error(t, err)
}

func TestGenerateRandom(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "generate", "--random", "5", "--max-side", "8", "--free")
	require.NoError(t, err)
	assert.Contains(t, out, "container height: free")
	assert.Contains(t, out, "number of rectangles: 5")
}
