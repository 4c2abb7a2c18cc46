package model

// BuildMode represents what the build pipeline should do with an event
type BuildMode string

const (
	// ModeBuildOnly renders the site to verify it still builds, without
	// publishing anything
	ModeBuildOnly BuildMode = "build_only"
	// ModeBuildAndDeploy renders the site and publishes the output to the
	// deploy branch
	ModeBuildAndDeploy BuildMode = "build_and_deploy"
)

// PublishRules holds the two branch constants the gate depends on
type PublishRules struct {
	// PublishBranch is the branch whose pushes trigger a deployment
	PublishBranch string
	// DeployBranch is the branch that receives generated output
	DeployBranch string
}

// PublishDecision is the outcome of evaluating a trigger event.
// DeployBranch is set only when Mode is ModeBuildAndDeploy.
type PublishDecision struct {
	Mode         BuildMode `json:"mode"`
	DeployBranch string    `json:"deploy_branch,omitempty"`
}

// ShouldDeploy reports whether the decision publishes output
func (d *PublishDecision) ShouldDeploy() bool {
	return d.Mode == ModeBuildAndDeploy
}
