package model

import "time"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	// RunStatusPartial means the required steps succeeded but a best-effort step failed.
	RunStatusPartial = "partial"
	RunStatusFailed  = "failed"
)

// Step actions.
const (
	StepActionFound   = "found"
	StepActionCreated = "created"
	StepActionApplied = "applied"
	StepActionFailed  = "failed"
)

// Step kinds.
const (
	StepKindResourceGroup    = "resource-group"
	StepKindWorkspace        = "workspace"
	StepKindComputeCluster   = "compute-cluster"
	StepKindNotebookInstance = "notebook-instance"
	StepKindEnvironment      = "environment"
)

// Run is one invocation of the setup pipeline.
type Run struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscriptionId"`
	ResourceGroup  string    `json:"resourceGroup"`
	Workspace      string    `json:"workspace"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt,omitempty"`
}

// StepRecord is the journaled outcome of one ensure step.
type StepRecord struct {
	RunID      string    `json:"runId"`
	Seq        int       `json:"seq"`
	Kind       string    `json:"kind"`
	Name       string    `json:"name"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resourceId,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
