package build

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"lwcc/state"
)

// Compile is the action of compile command.
func Compile(ctx context.Context, cmd *cli.Command) error {
	b, src, dst, err := prepare(ctx, cmd)
	if err != nil {
		return err
	}

	_, sources, err := Discover(src)
	if err != nil {
		return err
	}

	b.log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Int("files", len(sources)))
	defer func(start time.Time) {
		b.log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return b.Compile(ctx, sources, dst)
}

// Watch is the action of watch command.
func Watch(ctx context.Context, cmd *cli.Command) error {
	b, src, dst, err := prepare(ctx, cmd)
	if err != nil {
		return err
	}
	return b.Watch(ctx, src, dst)
}

func prepare(ctx context.Context, cmd *cli.Command) (*Builder, string, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", "", err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger()

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return nil, "", "", errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, "", "", err
	}

	// empty destination - modules are written next to sources
	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return nil, "", "", err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = env.Overwrite || cmd.Bool("overwrite")
	env.Namespace, env.Name = cmd.String("namespace"), cmd.String("name")
	if cmd.Bool("minify") {
		env.Cfg.Compiler.Output.Minify = true
	}

	if err := env.Rpt.StoreCopy("source", src); err != nil {
		log.Warn("Unable to store sources in debug report", zap.Error(err))
	}

	b := NewBuilder(&env.Cfg.Compiler, env.Rpt, log)
	b.Overwrite = b.Overwrite || env.Overwrite
	b.Namespace, b.Name = env.Namespace, env.Name
	return b, src, dst, nil
}
