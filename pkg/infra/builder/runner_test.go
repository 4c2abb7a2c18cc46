package builder_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/herald/pkg/infra/builder"
)

func TestNewRunner_Validation(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		outputDir string
		wantErr   bool
	}{
		{name: "valid", command: "hexo generate", outputDir: "public"},
		{name: "empty command", command: "", outputDir: "public", wantErr: true},
		{name: "blank command", command: "   ", outputDir: "public", wantErr: true},
		{name: "empty output dir", command: "hexo generate", outputDir: "", wantErr: true},
		{name: "absolute output dir", command: "hexo generate", outputDir: "/tmp/out", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := builder.NewRunner(tt.command, tt.outputDir)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, r).NotNil()
		})
	}
}

func TestRunner_Build(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test generator command requires a POSIX shell environment")
	}

	srcDir := t.TempDir()

	r, err := builder.NewRunner("mkdir public", "public")
	gt.NoError(t, err)

	outDir, err := r.Build(context.Background(), srcDir)
	gt.NoError(t, err)
	gt.Value(t, outDir).Equal(filepath.Join(srcDir, "public"))

	info, err := os.Stat(outDir)
	gt.NoError(t, err)
	gt.Value(t, info.IsDir()).Equal(true)
}

func TestRunner_Build_CommandFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test generator command requires a POSIX shell environment")
	}

	r, err := builder.NewRunner("false", "public")
	gt.NoError(t, err)

	_, err = r.Build(context.Background(), t.TempDir())
	gt.Error(t, err)
}

func TestRunner_Build_MissingOutputDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test generator command requires a POSIX shell environment")
	}

	// Command succeeds but never creates the output directory
	r, err := builder.NewRunner("true", "public")
	gt.NoError(t, err)

	_, err = r.Build(context.Background(), t.TempDir())
	gt.Error(t, err)
}
