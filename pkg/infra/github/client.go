package github

import (
	"context"
	"encoding/base64"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
)

type client struct {
	githubClient *github.Client
}

// NewClient creates a new GitHub client with App authentication
func NewClient(appID, installationID int64, privateKey []byte) (interfaces.GitHubClient, error) {
	// Create GitHub App transport
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return &client{
		githubClient: github.NewClient(&http.Client{Transport: itr}),
	}, nil
}

// DownloadZipball downloads the source code zipball for a specific commit
func (c *client) DownloadZipball(ctx context.Context, owner, repo, ref string) ([]byte, error) {
	// Get download URL for zipball
	url, _, err := c.githubClient.Repositories.GetArchiveLink(ctx, owner, repo, github.Zipball, &github.RepositoryContentGetOptions{
		Ref: ref,
	}, 3) // Follow up to 3 redirects
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get zipball download URL",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("ref", ref))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request", goerr.V("url", url.String()))
	}

	// Use the same client transport for authentication
	httpClient := &http.Client{Transport: c.githubClient.Client().Transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download zipball", goerr.V("url", url.String()))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code for zipball download",
			goerr.V("status", resp.StatusCode), goerr.V("url", url.String()))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read zipball response body")
	}

	return data, nil
}

// PushDirectory publishes the contents of dir as a single commit on branch
// through the git data API and force-updates the branch head. Generated
// trees carry no meaningful history, so the previous head becomes the sole
// parent when the branch exists and the commit is parentless otherwise.
func (c *client) PushDirectory(ctx context.Context, owner, repo, branch, dir, message string) (string, error) {
	entries, err := c.createTreeEntries(ctx, owner, repo, dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", goerr.New("no files to publish", goerr.V("dir", dir))
	}

	tree, _, err := c.githubClient.Git.CreateTree(ctx, owner, repo, "", entries)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create tree", goerr.V("entries", len(entries)))
	}

	commit := github.Commit{
		Message: github.Ptr(message),
		Tree:    tree,
	}

	refName := "refs/heads/" + branch
	parentRef, resp, err := c.githubClient.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	switch {
	case err == nil:
		commit.Parents = []*github.Commit{{SHA: parentRef.Object.SHA}}
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		// First deploy: the branch does not exist yet
	default:
		return "", goerr.Wrap(err, "failed to get deploy branch ref", goerr.V("ref", refName))
	}

	created, _, err := c.githubClient.Git.CreateCommit(ctx, owner, repo, commit, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create deploy commit")
	}

	if parentRef == nil {
		newRef := github.CreateRef{
			Ref: refName,
			SHA: created.GetSHA(),
		}
		if _, _, err := c.githubClient.Git.CreateRef(ctx, owner, repo, newRef); err != nil {
			return "", goerr.Wrap(err, "failed to create deploy branch", goerr.V("ref", refName))
		}
	} else {
		updateRef := github.UpdateRef{
			SHA:   created.GetSHA(),
			Force: github.Ptr(true),
		}
		if _, _, err := c.githubClient.Git.UpdateRef(ctx, owner, repo, refName, updateRef); err != nil {
			return "", goerr.Wrap(err, "failed to update deploy branch", goerr.V("ref", refName))
		}
	}

	return created.GetSHA(), nil
}

// createTreeEntries uploads every regular file under dir as a blob and
// returns the matching tree entries with slash-separated relative paths
func (c *client) createTreeEntries(ctx context.Context, owner, repo, dir string) ([]*github.TreeEntry, error) {
	var entries []*github.TreeEntry

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return goerr.Wrap(err, "failed to read output file", goerr.V("path", path))
		}

		blob, _, err := c.githubClient.Git.CreateBlob(ctx, owner, repo, github.Blob{
			Content:  github.Ptr(base64.StdEncoding.EncodeToString(content)),
			Encoding: github.Ptr("base64"),
		})
		if err != nil {
			return goerr.Wrap(err, "failed to create blob", goerr.V("path", path))
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return goerr.Wrap(err, "failed to determine relative path", goerr.V("path", path))
		}

		entries = append(entries, &github.TreeEntry{
			Path: github.Ptr(filepath.ToSlash(rel)),
			Mode: github.Ptr("100644"),
			Type: github.Ptr("blob"),
			SHA:  blob.SHA,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
