package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnPassStart(ctx, "doc-1", "doc")
	r.OnPassComplete(ctx, "doc-1", "doc", 3, time.Millisecond, nil)
	r.OnRescale(ctx, "doc-1", 800, 2310)

	cv := NoopCanvasHooks{}
	cv.OnUpdateStart(ctx, 1, 2)
	cv.OnUpdateComplete(ctx, 1, time.Millisecond, nil)
	cv.OnUpdateStale(ctx, 1)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "fragment")
	c.OnCacheMiss(ctx, "pages")
	c.OnCacheSet(ctx, "fragment", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Canvas().(NoopCanvasHooks); !ok {
		t.Error("Canvas() should return NoopCanvasHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customCanvas := &testCanvasHooks{}
	SetCanvasHooks(customCanvas)
	if Canvas() != customCanvas {
		t.Error("SetCanvasHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testCanvasHooks{}
	SetCanvasHooks(custom)
	SetCanvasHooks(nil)

	if Canvas() != custom {
		t.Error("SetCanvasHooks(nil) should be ignored")
	}

	Reset()
}

type testRenderHooks struct{ NoopRenderHooks }
type testCanvasHooks struct{ NoopCanvasHooks }
type testCacheHooks struct{ NoopCacheHooks }
