package hook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// DefaultTimeout bounds a single Starlark filter invocation.
const DefaultTimeout = 5 * time.Second

// filterFunc is the function every Starlark filter file must define.
const filterFunc = "filter"

// StarlarkFilter runs def filter(script, hook) from a Starlark source file.
type StarlarkFilter struct {
	name    string
	source  []byte
	timeout time.Duration
}

// LoadStarlark reads a filter file. The file is compiled on every Apply so edits are picked
// up by long-running watchers.
func LoadStarlark(path string, timeout time.Duration) (*StarlarkFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter %s: %w", path, err)
	}
	return NewStarlark(filepath.Base(path), data, timeout), nil
}

// NewStarlark creates a filter from source.
func NewStarlark(name string, source []byte, timeout time.Duration) *StarlarkFilter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &StarlarkFilter{name: name, source: source, timeout: timeout}
}

func (f *StarlarkFilter) Name() string { return f.name }

// Apply evaluates the filter with a deadline. A timed out evaluation is cancelled.
func (f *StarlarkFilter) Apply(ctx context.Context, value string) (string, error) {
	evalCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	thread := &starlark.Thread{
		Name:  f.name,
		Print: func(_ *starlark.Thread, _ string) {},
	}

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := f.evaluate(thread, value)
		done <- result{out: out, err: err}
	}()

	select {
	case <-evalCtx.Done():
		thread.Cancel(evalCtx.Err().Error())
		return "", fmt.Errorf("starlark filter %s: execution timeout after %v", f.name, f.timeout)
	case r := <-done:
		return r.out, r.err
	}
}

func (f *StarlarkFilter) evaluate(thread *starlark.Thread, value string) (string, error) {
	predeclared := starlark.StringDict{
		"struct": starlarkstruct.Default,
	}

	globals, err := starlark.ExecFile(thread, f.name, f.source, predeclared)
	if err != nil {
		return "", fmt.Errorf("starlark execution failed: %w", err)
	}

	fn, ok := globals[filterFunc].(starlark.Callable)
	if !ok {
		return "", fmt.Errorf("%s does not define %s(script)", f.name, filterFunc)
	}

	out, err := starlark.Call(thread, fn, starlark.Tuple{starlark.String(value)}, nil)
	if err != nil {
		return "", fmt.Errorf("starlark call failed: %w", err)
	}

	s, ok := starlark.AsString(out)
	if !ok {
		return "", fmt.Errorf("%s returned %s, want string", filterFunc, out.Type())
	}
	return s, nil
}
