package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
)

type publishUseCase struct {
	githubClient interfaces.GitHubClient
	builder      interfaces.SiteBuilder
}

// NewPublish creates a new instance of PublishUseCase
func NewPublish(githubClient interfaces.GitHubClient, builder interfaces.SiteBuilder) interfaces.PublishUseCase {
	return &publishUseCase{
		githubClient: githubClient,
		builder:      builder,
	}
}

// Run fetches the source at the event commit, renders the site via the
// external generator and, when the decision requires it, pushes the output
// to the deploy branch. Build-only runs render and discard the output.
func (uc *publishUseCase) Run(ctx context.Context, req *model.BuildRequest) (*model.BuildResult, error) {
	logger := ctxlog.From(ctx)

	owner, repo, err := splitRepository(req.Event.Repository)
	if err != nil {
		return nil, err
	}

	started := time.Now()

	zipData, err := uc.githubClient.DownloadZipball(ctx, owner, repo, req.Event.CommitSHA)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download source zipball",
			goerr.V("repository", req.Event.Repository),
			goerr.V("commit_sha", req.Event.CommitSHA),
		)
	}

	logger.Info("Downloaded source zipball",
		"run_id", req.RunID,
		"size_bytes", len(zipData),
		"repository", req.Event.Repository,
	)

	srcDir, tempDir, err := extractZip(zipData)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract source zipball",
			goerr.V("repository", req.Event.Repository),
		)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			logger.Warn("Failed to clean up source directory",
				"temp_dir", tempDir,
				"error", err,
			)
		}
	}()

	outDir, err := uc.builder.Build(ctx, srcDir)
	if err != nil {
		return nil, goerr.Wrap(err, "generator run failed",
			goerr.V("run_id", req.RunID),
			goerr.V("src_dir", srcDir),
		)
	}

	fileCount, totalSize, err := measureOutput(outDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to inspect generator output", goerr.V("out_dir", outDir))
	}

	result := &model.BuildResult{
		OutputDir: outDir,
		FileCount: fileCount,
		Size:      totalSize,
		Duration:  time.Since(started),
	}

	if !req.Decision.ShouldDeploy() {
		logger.Info("Build-only run verified",
			"run_id", req.RunID,
			"file_count", fileCount,
			"total_size", totalSize,
		)
		return result, nil
	}

	message := "Site updated: " + req.Event.CommitSHA
	commitSHA, err := uc.githubClient.PushDirectory(ctx, owner, repo, req.Decision.DeployBranch, outDir, message)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to deploy generated output",
			goerr.V("run_id", req.RunID),
			goerr.V("deploy_branch", req.Decision.DeployBranch),
		)
	}
	result.Deployed = true

	logger.Info("Deployed generated output",
		"run_id", req.RunID,
		"deploy_branch", req.Decision.DeployBranch,
		"commit_sha", commitSHA,
		"file_count", fileCount,
	)

	return result, nil
}

// splitRepository splits a full name like "owner/name" into its parts
func splitRepository(fullName string) (string, string, error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", goerr.New("repository full name must be owner/name", goerr.V("repository", fullName))
	}
	return owner, repo, nil
}

// extractZip extracts ZIP data to a temporary directory. GitHub zipballs
// wrap everything in a single top-level directory; srcDir points inside it
// so the generator sees the repository root, while tempDir is the directory
// the caller must remove. The directory is removed here when extraction
// fails partway.
func extractZip(zipData []byte) (srcDir, tempDir string, err error) {
	tempDir, err = os.MkdirTemp("", "herald-src-*")
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to create temporary directory")
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(tempDir)
		}
	}()

	if err := os.Chmod(tempDir, 0700); err != nil {
		return "", "", goerr.Wrap(err, "failed to set directory permissions", goerr.V("temp_dir", tempDir))
	}

	zipReader, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to create zip reader")
	}

	var topDir string
	for _, file := range zipReader.File {
		if err := extractFile(file, tempDir); err != nil {
			return "", "", err
		}
		if topDir == "" {
			topDir = strings.SplitN(file.Name, "/", 2)[0]
		}
	}

	if topDir == "" {
		return tempDir, tempDir, nil
	}
	return filepath.Join(tempDir, topDir), tempDir, nil
}

// extractFile extracts a single file from ZIP to the destination directory
func extractFile(file *zip.File, destDir string) error {
	// Prevent path traversal out of the destination directory
	destPath := filepath.Join(destDir, file.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("invalid file path in zip", goerr.V("file", file.Name), goerr.V("dest", destPath))
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, file.FileInfo().Mode())
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open file in zip", goerr.V("file", file.Name))
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories", goerr.V("dir", filepath.Dir(destPath)))
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.FileInfo().Mode())
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file", goerr.V("dest", destPath))
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, rc); err != nil {
		return goerr.Wrap(err, "failed to copy file content", goerr.V("dest", destPath))
	}

	return nil
}

// measureOutput counts regular files and their total size under dir
func measureOutput(dir string) (int, int64, error) {
	var count int
	var size int64

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		count++
		size += info.Size()
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return count, size, nil
}
