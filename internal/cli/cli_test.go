package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fsmview"
	"github.com/aretw0/fsmview/internal/logging"
	"github.com/aretw0/fsmview/internal/presentation/export"
	"github.com/aretw0/fsmview/pkg/domain"
)

const demoYAML = `states:
  - {id: 0, name: Demo, parent: -1, is_fsm: true, current_state: 2, outcomes: [finished]}
  - {id: 1, name: Start, parent: 0, outcomes: [next], transitions: [{outcome: next, state: Nested}]}
  - {id: 2, name: Nested, parent: 0, is_fsm: true, current_state: 3, outcomes: [finished]}
  - {id: 3, name: Work, parent: 2, outcomes: [finished]}
`

const brokenJSON = `{"states": [
	{"id": 0, "name": "Broken", "parent": -1, "is_fsm": true, "current_state": 1},
	{"id": 1, "name": "A", "parent": 0, "outcomes": ["lost"]}
]}`

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestRunner(stdout, stderr io.Writer) *Runner {
	return &Runner{
		Viewer:  fsmview.New(),
		Formats: export.Default(),
		Stdin:   strings.NewReader(""),
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logging.NewNop(),
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	snap, err := LoadSnapshot(writeFile(t, dir, "demo.yaml", demoYAML), nil)
	require.NoError(t, err)
	assert.Equal(t, "Demo", snap.Name())
	assert.Len(t, snap.States, 4)

	snap, err = LoadSnapshot("-", strings.NewReader(brokenJSON))
	require.NoError(t, err)
	assert.Equal(t, "Broken", snap.Name())

	_, err = LoadSnapshot(filepath.Join(dir, "missing.json"), nil)
	assert.Error(t, err)

	_, err = LoadSnapshot(writeFile(t, dir, "bad.json", "{"), nil)
	assert.ErrorIs(t, err, domain.ErrMalformedSnapshot)
}

func TestRender_Stdout(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	r := newTestRunner(&out, &bytes.Buffer{})

	err := r.Render(context.Background(), RenderOptions{
		Paths:  []string{writeFile(t, dir, "demo.yaml", demoYAML)},
		Format: export.FormatMermaid,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "flowchart TD")
	assert.Contains(t, out.String(), `subgraph Demonode2 ["Nested"]`)
}

func TestRender_OutDirectory(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	r := newTestRunner(&bytes.Buffer{}, &bytes.Buffer{})

	err := r.Render(context.Background(), RenderOptions{
		Paths:  []string{writeFile(t, dir, "demo.yaml", demoYAML), writeFile(t, dir, "broken.json", brokenJSON)},
		Format: export.FormatDOT,
		Out:    outDir,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "Demo.dot"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `digraph "Demo"`)
	assert.FileExists(t, filepath.Join(outDir, "Broken.dot"))
}

func TestRender_OutFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "graph.json")
	r := newTestRunner(&bytes.Buffer{}, &bytes.Buffer{})

	err := r.Render(context.Background(), RenderOptions{
		Paths:  []string{writeFile(t, dir, "demo.yaml", demoYAML)},
		Format: export.FormatCytoscape,
		Out:    target,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"current_state"`)
}

func TestRender_Errors(t *testing.T) {
	r := newTestRunner(&bytes.Buffer{}, &bytes.Buffer{})

	assert.Error(t, r.Render(context.Background(), RenderOptions{Format: export.FormatJSON}))
	assert.Error(t, r.Render(context.Background(), RenderOptions{Paths: []string{"x.json"}, Format: "bmp"}))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	r := newTestRunner(&out, &bytes.Buffer{})

	err := r.Validate(context.Background(), []string{writeFile(t, dir, "demo.yaml", demoYAML)}, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "## Demo")
	assert.Contains(t, out.String(), "No findings.")

	out.Reset()
	err = r.Validate(context.Background(), []string{writeFile(t, dir, "broken.json", brokenJSON)}, func(md string) (string, error) {
		return strings.ToUpper(md), nil
	})
	assert.ErrorIs(t, err, ErrFindings)
	assert.Contains(t, out.String(), "DANGLING_TRANSITION_TARGET")
}

func TestActive(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.yaml", demoYAML)

	var out bytes.Buffer
	r := newTestRunner(&out, &bytes.Buffer{})
	require.NoError(t, r.Active(path, false))
	assert.Contains(t, out.String(), "Demo (0)\n")
	assert.Contains(t, out.String(), "  Nested (2)\n")
	assert.Contains(t, out.String(), "Work (3)")

	out.Reset()
	require.NoError(t, r.Active(path, true))
	assert.JSONEq(t, `{"machine":"Demo","id":3,"node_id":"Demonode3","path":["Demo","Nested","Work"]}`, out.String())

	unresolved := writeFile(t, dir, "unresolved.json", `{"states": [{"id": 0, "name": "U", "parent": -1, "is_fsm": true, "current_state": 5}]}`)
	assert.ErrorIs(t, r.Active(unresolved, false), domain.ErrUnresolvedActiveState)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.yaml", demoYAML)

	out := &syncBuffer{}
	r := newTestRunner(out, &syncBuffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, RenderOptions{Paths: []string{path}, Format: export.FormatMermaid})
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "flowchart TD") == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(demoYAML, "Work", "Rework")), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `Demonode3["Rework"]`)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_NeedsOneFile(t *testing.T) {
	r := newTestRunner(&bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, r.Watch(context.Background(), RenderOptions{Paths: []string{"a", "b"}, Format: export.FormatJSON}))
	assert.Error(t, r.Watch(context.Background(), RenderOptions{Paths: []string{"-"}, Format: export.FormatJSON}))
}
