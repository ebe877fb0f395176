package compiler

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
	lperrors "github.com/alexisbeaulieu97/livepreview/pkg/errors"
)

// Separator sits between procedures in the joined script. The script has no trailing
// separator.
const Separator = "\n"

// Compile renders the script for fields. It is a pure function of the fields and their
// order.
func Compile(fields []descriptor.Field) string {
	eligible, _ := Scan(fields)
	compiled := make([]CompiledField, 0, len(eligible))
	for _, f := range eligible {
		compiled = append(compiled, CompileField(f))
	}
	return Join(compiled)
}

// Join concatenates rendered procedures in order.
func Join(compiled []CompiledField) string {
	rendered := make([]string, 0, len(compiled))
	for _, c := range compiled {
		rendered = append(rendered, c.Render())
	}
	return strings.Join(rendered, Separator)
}

// CompileAll compiles eligible fields using up to workers goroutines. Output order always
// matches input order. The only failure is cancellation of ctx.
func CompileAll(ctx context.Context, fields []descriptor.Field, workers int, each func(context.Context, descriptor.Field) CompiledField) ([]CompiledField, error) {
	if each == nil {
		each = func(_ context.Context, f descriptor.Field) CompiledField { return CompileField(f) }
	}
	out := make([]CompiledField, len(fields))

	if workers <= 1 {
		for i, f := range fields {
			if err := ctx.Err(); err != nil {
				return nil, lperrors.NewCompileError(f.Settings, err)
			}
			out[i] = each(ctx, f)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range fields {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return lperrors.NewCompileError(f.Settings, err)
			}
			out[i] = each(gctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
