package builder

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
)

type runner struct {
	command   []string
	outputDir string
	timeout   time.Duration
}

// RunnerOption is a functional option for the generator runner
type RunnerOption func(*runner)

// WithTimeout caps the generator wall-clock time
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *runner) {
		r.timeout = d
	}
}

// NewRunner creates a SiteBuilder that invokes an external generator
// command. command is a space-separated command line (no shell expansion);
// outputDir is the generator's output directory relative to the source root.
func NewRunner(command, outputDir string, opts ...RunnerOption) (interfaces.SiteBuilder, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, goerr.New("build command is empty")
	}
	if outputDir == "" || filepath.IsAbs(outputDir) {
		return nil, goerr.New("output dir must be a relative path", goerr.V("output_dir", outputDir))
	}

	r := &runner{
		command:   argv,
		outputDir: outputDir,
		timeout:   10 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Build runs the generator in srcDir and returns the output directory path
func (r *runner) Build(ctx context.Context, srcDir string) (string, error) {
	logger := ctxlog.From(ctx)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Dir = srcDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Info("Running site generator",
		"command", strings.Join(r.command, " "),
		"src_dir", srcDir,
	)

	started := time.Now()
	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(err, "site generator failed",
			goerr.V("command", strings.Join(r.command, " ")),
			goerr.V("stdout", stdout.String()),
			goerr.V("stderr", stderr.String()),
		)
	}

	logger.Info("Site generator finished",
		"duration", time.Since(started),
		"stdout_bytes", stdout.Len(),
	)

	outDir := filepath.Join(srcDir, r.outputDir)
	info, err := os.Stat(outDir)
	if err != nil {
		return "", goerr.Wrap(err, "generator produced no output directory", goerr.V("out_dir", outDir))
	}
	if !info.IsDir() {
		return "", goerr.New("generator output path is not a directory", goerr.V("out_dir", outDir))
	}

	return outDir, nil
}
