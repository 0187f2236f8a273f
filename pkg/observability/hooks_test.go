package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRunHooks{}
	r.OnRunStart(ctx, "run-1", 42, 3000)
	r.OnRunComplete(ctx, "run-1", RunOutcome{Energy: -120, Iterations: 3000}, nil)
	r.OnRunComplete(ctx, "run-2", RunOutcome{}, errors.New("canceled"))

	rh := NoopRenderHooks{}
	rh.OnRenderStart(ctx, []string{"svg"})
	rh.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/api/optimize")
	h.OnResponse(ctx, "POST", "/api/optimize", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Runs().(NoopRunHooks); !ok {
		t.Error("Runs() should return NoopRunHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customRuns := &testRunHooks{}
	SetRunHooks(customRuns)
	if Runs() != customRuns {
		t.Error("SetRunHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Runs().(NoopRunHooks); !ok {
		t.Error("Reset() should restore NoopRunHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testRunHooks{}
	SetRunHooks(custom)
	SetRunHooks(nil)

	if Runs() != custom {
		t.Error("SetRunHooks(nil) should be ignored")
	}
}

type testRunHooks struct{ NoopRunHooks }
type testRenderHooks struct{ NoopRenderHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
