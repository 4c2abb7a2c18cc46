package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Site holds the publish gate configuration: which branch publishes, which
// branch receives output, and how the site is rendered.
type Site struct {
	Repository    string
	PublishBranch string
	DeployBranch  string
	BuildCommand  string
	OutputDir     string
	ConfigPath    string
}

// siteFile is the YAML shape of an optional repo-local site config file
type siteFile struct {
	Repository    string `yaml:"repository"`
	PublishBranch string `yaml:"publish_branch"`
	DeployBranch  string `yaml:"deploy_branch"`
	BuildCommand  string `yaml:"build_command"`
	OutputDir     string `yaml:"output_dir"`
}

// Flags returns CLI flags for site configuration
func (c *Site) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Content repository (owner/name)",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("HERALD_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "publish-branch",
			Usage:       "Branch whose pushes trigger a deployment",
			Value:       "code",
			Destination: &c.PublishBranch,
			Sources:     cli.EnvVars("HERALD_PUBLISH_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "deploy-branch",
			Usage:       "Branch that receives generated output",
			Value:       "master",
			Destination: &c.DeployBranch,
			Sources:     cli.EnvVars("HERALD_DEPLOY_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "build-command",
			Usage:       "Site generator command (e.g. 'hexo generate')",
			Destination: &c.BuildCommand,
			Sources:     cli.EnvVars("HERALD_BUILD_COMMAND"),
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Usage:       "Generator output directory relative to the source root",
			Value:       "public",
			Destination: &c.OutputDir,
			Sources:     cli.EnvVars("HERALD_OUTPUT_DIR"),
		},
		&cli.StringFlag{
			Name:        "site-config",
			Usage:       "Path to a YAML site config file (its values take precedence)",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("HERALD_SITE_CONFIG"),
		},
	}
}

// Load applies the YAML site config file when one is configured. Non-empty
// file values take precedence over flag and default values, so a repo-local
// file fully describes its own site.
func (c *Site) Load() error {
	if c.ConfigPath == "" {
		return nil
	}

	data, err := os.ReadFile(c.ConfigPath)
	if err != nil {
		return goerr.Wrap(err, "failed to read site config file", goerr.V("path", c.ConfigPath))
	}

	var file siteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return goerr.Wrap(err, "failed to parse site config file", goerr.V("path", c.ConfigPath))
	}

	if file.Repository != "" {
		c.Repository = file.Repository
	}
	if file.PublishBranch != "" {
		c.PublishBranch = file.PublishBranch
	}
	if file.DeployBranch != "" {
		c.DeployBranch = file.DeployBranch
	}
	if file.BuildCommand != "" {
		c.BuildCommand = file.BuildCommand
	}
	if file.OutputDir != "" {
		c.OutputDir = file.OutputDir
	}

	return nil
}

// Validate checks that the configuration can gate deployments safely
func (c *Site) Validate() error {
	if c.PublishBranch == "" {
		return goerr.New("publish branch must not be empty")
	}
	if c.DeployBranch == "" {
		return goerr.New("deploy branch must not be empty")
	}
	if c.PublishBranch == c.DeployBranch {
		// Deploying onto the publishing branch would overwrite the sources
		return goerr.New("publish branch and deploy branch must differ",
			goerr.V("branch", c.PublishBranch))
	}

	owner, repo, ok := strings.Cut(c.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return goerr.New("repository must be owner/name", goerr.V("repository", c.Repository))
	}

	if strings.TrimSpace(c.BuildCommand) == "" {
		return goerr.New("build command must not be empty")
	}

	return nil
}

// Rules returns the branch constants the decision function depends on
func (c *Site) Rules() model.PublishRules {
	return model.PublishRules{
		PublishBranch: c.PublishBranch,
		DeployBranch:  c.DeployBranch,
	}
}
