// Package setup provisions a Machine Learning workspace with its compute
// targets and environment.
package setup

import (
	"fmt"
	"io"

	"github.com/kompox/amlops/domain"
	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/retry"
)

// StudioURLFormat renders the Azure ML Studio overview URL of a workspace.
const StudioURLFormat = "https://ml.azure.com/workspaces/%s/overview"

// Repos holds repositories needed for setup.
type Repos struct {
	// Run is optional; a nil Run disables the journal.
	Run domain.RunRepository
}

// Ports holds the provider ports driven by setup.
type Ports struct {
	ResourceGroup model.ResourceGroupPort
	Workspace     model.WorkspacePort
	Compute       model.ComputePort
	Environment   model.EnvironmentPort
}

// Observer receives human-readable progress lines.
type Observer interface {
	Progress(line string)
}

// WriterObserver writes each progress line to W.
type WriterObserver struct {
	W io.Writer
}

func (o WriterObserver) Progress(line string) {
	fmt.Fprintln(o.W, line)
}

// UseCase wires repositories and ports needed for setup.
type UseCase struct {
	Repos    *Repos
	Ports    *Ports
	Observer Observer
	// Retry tunes the backoff for transient lookup failures.
	Retry []retry.Option
}

// SetupInput is the full provisioning request.
type SetupInput struct {
	Target              *model.Target           `json:"target"`
	CreateResourceGroup bool                    `json:"createResourceGroup"`
	Workspace           *model.Workspace        `json:"workspace"`
	ComputeCluster      *model.ComputeCluster   `json:"computeCluster"`
	NotebookInstance    *model.NotebookInstance `json:"notebookInstance"`
	Environment         *model.Environment      `json:"environment"`
}

// SetupOutput reports what setup did.
type SetupOutput struct {
	RunID            string              `json:"runId,omitempty"`
	Status           string              `json:"status"`
	Workspace        *model.Workspace    `json:"workspace,omitempty"`
	ComputeCluster   *model.Compute      `json:"computeCluster,omitempty"`
	NotebookInstance *model.Compute      `json:"notebookInstance,omitempty"`
	Environment      *model.Environment  `json:"environment,omitempty"`
	EnvironmentError string              `json:"environmentError,omitempty"`
	Steps            []*model.StepRecord `json:"steps"`
	StudioURL        string              `json:"studioUrl,omitempty"`
}

// StudioURL returns the Studio overview URL for a workspace name.
func StudioURL(workspace string) string {
	return fmt.Sprintf(StudioURLFormat, workspace)
}
