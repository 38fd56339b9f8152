package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lwcc/common"
	"lwcc/compiler"
	"lwcc/config"
)

// ErrDestinationExists is returned when generated module would overwrite
// existing file and overwriting was not requested.
var ErrDestinationExists = errors.New("destination already exists")

// Builder compiles component sources from disk.
type Builder struct {
	log      *zap.Logger
	compiler *compiler.Compiler
	cfg      *config.CompilerConfig
	rpt      *config.Report

	// Overwrite allows replacing existing modules.
	Overwrite bool
	// Namespace and Name override values derived from source layout.
	Namespace string
	Name      string

	// generation of outputs stored in debug report, bumped by watch cycles
	generation int
	// signalled after every watch cycle
	cycled chan<- error
}

// NewBuilder creates builder. rpt may be nil.
func NewBuilder(cfg *config.CompilerConfig, rpt *config.Report, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		log:       log.Named("build"),
		compiler:  compiler.New(log),
		cfg:       cfg,
		rpt:       rpt,
		Overwrite: cfg.Overwrite,
	}
}

func (b *Builder) options(s Source) common.TransformOptions {
	opts := b.cfg.TransformOptions(s.Namespace, s.Name)
	if len(b.Namespace) > 0 {
		opts.Namespace = b.Namespace
	}
	if len(b.Name) > 0 {
		opts.Name = b.Name
	}
	opts.Stylesheets = s.Stylesheets()
	return opts
}

// Compile compiles every source and writes generated modules under dst
// preserving relative layout. Failures of individual files do not stop
// processing, they are logged and returned combined.
func (b *Builder) Compile(ctx context.Context, sources []Source, dst string) error {
	if len(sources) == 0 {
		b.log.Debug("Nothing to compile")
		return nil
	}

	jobs := make([]compiler.Job, 0, len(sources))
	var err error
	for _, s := range sources {
		data, er := os.ReadFile(s.Path)
		if er != nil {
			er = fmt.Errorf("unable to read source: %w", er)
			err = multierr.Append(err, er)
			b.rpt.StoreDiagnostic("error", er)
			b.log.Error("Unable to read source", zap.String("file", s.Path), zap.Error(er))
			continue
		}
		jobs = append(jobs, compiler.Job{Source: string(data), Filename: s.Path, Options: b.options(s)})
		b.storeTree(s, string(data))
	}

	outcomes, er := b.compiler.TransformAll(ctx, jobs, b.cfg.WorkerCount())
	if er != nil {
		return multierr.Append(err, er)
	}

	byPath := make(map[string]Source, len(sources))
	for _, s := range sources {
		byPath[s.Path] = s
	}

	var compiled int
	for _, o := range outcomes {
		s := byPath[o.Job.Filename]
		if o.Err != nil {
			b.log.Error("Unable to compile", zap.String("file", s.Rel), zap.Error(o.Err))
			b.rpt.StoreDiagnostic("error", o.Err)
			err = multierr.Append(err, o.Err)
			continue
		}
		for _, w := range o.Result.Warnings {
			b.log.Warn(w.Message, zap.String("file", s.Rel), zap.Stringer("position", w.Position()))
			b.rpt.StoreDiagnostic("warning", w)
		}
		if er := b.write(s, dst, o.Result.Code); er != nil {
			b.log.Error("Unable to write module", zap.String("file", s.Rel), zap.Error(er))
			b.rpt.StoreDiagnostic("error", er)
			err = multierr.Append(err, er)
			continue
		}
		compiled++
	}
	b.log.Info("Compilation completed", zap.Int("compiled", compiled), zap.Int("failed", len(multierr.Errors(err))))
	return err
}

// storeTree puts parsed tree of the source into debug report.
func (b *Builder) storeTree(s Source, src string) {
	if b.rpt == nil {
		return
	}
	tree, err := b.compiler.Dump(src, s.Path)
	if err != nil {
		// reported by compilation
		return
	}
	b.rpt.StoreData(b.reportName("tree", s, ".txt"), []byte(tree))
}

func (b *Builder) reportName(dir string, s Source, ext string) string {
	name := filepath.ToSlash(s.Rel) + ext
	if b.generation > 0 {
		name = fmt.Sprintf("%d/%s", b.generation, name)
	}
	return dir + "/" + name
}

func (b *Builder) write(s Source, dst, code string) error {
	out := s.Output(dst)
	if !b.Overwrite {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%w: %s", ErrDestinationExists, out)
		}
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(code), 0644); err != nil {
		return fmt.Errorf("unable to write destination: %w", err)
	}

	b.rpt.StoreData(b.reportName("output", s, OutputExt), []byte(code))

	b.log.Debug("Module written", zap.String("source", s.Rel), zap.String("destination", out))
	return nil
}
