package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pageview/pkg/render/nodelink"
)

func TestRunTreeDOT(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := withLogger(context.Background(), c.Logger)

	doc, closer, err := c.openDocument(ctx, writeDocument(t, 3), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	out := filepath.Join(t.TempDir(), "tree.dot")
	if err := c.runTree(ctx, doc, out, formatDOT, nodelink.Options{Depth: 1}); err != nil {
		t.Fatalf("runTree: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("unexpected DOT header: %.30s", dot)
	}
	if !strings.Contains(dot, "g.typst-page") {
		t.Error("DOT output does not mention any page")
	}
}

func TestTreeCommandRejectsFormat(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"tree", "--format", "png", "doc.json"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("Execute() error = %v, want unknown format", err)
	}
}
