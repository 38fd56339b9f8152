// Package compiler is the entry point of both compilation pipelines. Source
// kind is selected by file name: templates (.html) go through markup parsing,
// validation, IR building and code generation, stylesheets (.css) through the
// stylesheet transform.
package compiler

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lwcc/codegen"
	"lwcc/common"
	"lwcc/css"
	"lwcc/diag"
	"lwcc/ir"
	"lwcc/markup"
	"lwcc/style"
	"lwcc/validate"
)

// Result is a compiled module. Source maps are not produced.
type Result struct {
	Code     string
	Warnings []*diag.Diagnostic
}

// Compiler holds pipeline stages. It keeps no state between calls and is
// safe for concurrent use.
type Compiler struct {
	log       *zap.Logger
	parser    *markup.Parser
	validator *validate.Validator
	builder   *ir.Builder
	generator *codegen.Generator
	styles    *style.Transformer
	sheets    *css.Parser
}

// New creates compiler.
func New(log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{
		log:       log.Named("compiler"),
		parser:    markup.NewParser(log),
		validator: validate.New(log),
		builder:   ir.NewBuilder(log),
		generator: codegen.New(log),
		styles:    style.New(log),
		sheets:    css.NewParser(log),
	}
}

// Transform compiles single source. Failures are reported as
// *diag.Diagnostic, nothing is produced partially. Context is only checked
// before the work starts.
func (c *Compiler) Transform(ctx context.Context, src, filename string, opts common.TransformOptions) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, ok := common.FileKindFromName(filename)
	if !ok {
		return nil, fmt.Errorf("unsupported source file '%s': only %s and %s are recognized",
			filename, common.FileKindTemplate.Ext(), common.FileKindStylesheet.Ext())
	}

	c.log.Debug("Transforming", zap.String("source", filename), zap.Stringer("kind", kind), zap.Int("size", len(src)))

	switch kind {
	case common.FileKindTemplate:
		return c.template(src, filename, opts)
	default:
		res, err := c.styles.Transform(src, filename, opts)
		if err != nil {
			return nil, err
		}
		return &Result{Code: res.Code, Warnings: res.Warnings}, nil
	}
}

func (c *Compiler) template(src, filename string, opts common.TransformOptions) (*Result, error) {
	root, err := c.parser.Parse(src, filename)
	if err != nil {
		return nil, err
	}
	if err := c.validator.Validate(root, filename); err != nil {
		return nil, err
	}
	tmpl, err := c.builder.Build(root, filename)
	if err != nil {
		return nil, err
	}
	return &Result{Code: c.generator.Generate(tmpl, opts.Stylesheets), Warnings: root.Warnings}, nil
}

// Dump returns readable tree of parsed source for debugging: template AST
// or stylesheet rules. Nothing is validated.
func (c *Compiler) Dump(src, filename string) (string, error) {
	kind, ok := common.FileKindFromName(filename)
	if !ok {
		return "", fmt.Errorf("unsupported source file '%s'", filename)
	}
	if kind == common.FileKindTemplate {
		root, err := c.parser.Parse(src, filename)
		if err != nil {
			return "", err
		}
		return markup.Dump(root), nil
	}
	sheet, err := c.sheets.Parse(src, filename)
	if err != nil {
		return "", err
	}
	return sheet.String(), nil
}

// Job is a single unit of work for TransformAll.
type Job struct {
	Source   string
	Filename string
	Options  common.TransformOptions
}

// Outcome is result of a Job. Exactly one of Result and Err is set.
type Outcome struct {
	Job    Job
	Result *Result
	Err    error
}

// TransformAll runs jobs concurrently using at most workers goroutines
// (runtime.NumCPU() when workers is not positive). Outcomes are returned in
// the order of jobs, failure of one job does not affect others. Returned
// error is only set when context was cancelled.
func (c *Compiler) TransformAll(ctx context.Context, jobs []Job, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]Outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := c.Transform(gctx, job.Source, job.Filename, job.Options)
			out[i] = Outcome{Job: job, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}
