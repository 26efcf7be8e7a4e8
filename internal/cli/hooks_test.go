package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageview/pkg/observability"
)

func TestDebugHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	installDebugHooks(newLogger(&buf, log.DebugLevel))

	ctx := context.Background()
	observability.Render().OnPassStart(ctx, "0123456789abcdef", "doc")
	observability.Render().OnPassComplete(ctx, "0123456789abcdef", "doc", 3, time.Millisecond, nil)
	observability.Canvas().OnUpdateStale(ctx, 7)
	observability.Cache().OnCacheMiss(ctx, "fragment")
	observability.Render().OnPassComplete(ctx, "x", "slide", 0, 0, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"pass start", "doc=01234567", "pages=3", "canvas stale", "gen=7", "cache miss", "pass failed", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestShort(t *testing.T) {
	if got := short("abc"); got != "abc" {
		t.Errorf("short(abc) = %q", got)
	}
	if got := short("0123456789"); got != "01234567" {
		t.Errorf("short = %q", got)
	}
}
