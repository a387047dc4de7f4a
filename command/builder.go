package command

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/grovetools/vigil/config"
)

// Builder turns configured command specs into runnable exec.Cmd instances.
type Builder struct {
	executor Executor
}

// NewBuilder creates a Builder backed by a RealExecutor.
func NewBuilder() *Builder {
	return NewBuilderWithExecutor(&RealExecutor{})
}

// NewBuilderWithExecutor creates a Builder with a custom Executor.
func NewBuilderWithExecutor(executor Executor) *Builder {
	return &Builder{executor: executor}
}

// Build creates an exec.Cmd for the spec. The working directory is set to
// the program's own directory when that directory exists, so build scripts
// that assume relative paths keep working.
func (b *Builder) Build(ctx context.Context, spec config.CommandSpec) *exec.Cmd {
	cmd := b.executor.CommandContext(ctx, spec.Program, spec.Args...)

	if dir := filepath.Dir(spec.Program); dir != "." {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			cmd.Dir = dir
		}
	}

	return cmd
}

// ProgramExists reports whether the spec's program resolves to an
// executable, either as a direct path or through PATH.
func ProgramExists(spec config.CommandSpec) bool {
	if spec.IsZero() {
		return false
	}
	if _, err := os.Stat(spec.Program); err == nil {
		return true
	}
	_, err := exec.LookPath(spec.Program)
	return err == nil
}
