package interfaces

import "context"

// GitHubClient defines operations for interacting with the GitHub API
type GitHubClient interface {
	// DownloadZipball downloads the source code zipball for a specific commit
	DownloadZipball(ctx context.Context, owner, repo, ref string) ([]byte, error)

	// PushDirectory publishes the contents of dir as a new commit on branch,
	// force-updating the branch head. It returns the new commit SHA.
	PushDirectory(ctx context.Context, owner, repo, branch, dir, message string) (string, error)
}

// SiteBuilder defines the external site generator invocation
type SiteBuilder interface {
	// Build runs the generator in srcDir and returns the absolute path of
	// the generated output directory
	Build(ctx context.Context, srcDir string) (string, error)
}
