package model

import "time"

// Compute tiers.
const (
	ComputeTierDedicated   = "dedicated"
	ComputeTierLowPriority = "low_priority"
)

// Compute types as reported by the provider.
const (
	ComputeTypeCluster  = "AmlCompute"
	ComputeTypeInstance = "ComputeInstance"
)

// ComputeCluster describes an auto-scaling pool of worker machines.
type ComputeCluster struct {
	Name         string `json:"name"`
	VMSize       string `json:"vmSize"`
	MinInstances int    `json:"minInstances"`
	MaxInstances int    `json:"maxInstances"`
	// IdleTimeBeforeScaleDown is how long idle nodes are kept before scaling down.
	IdleTimeBeforeScaleDown time.Duration `json:"idleTimeBeforeScaleDown"`
	// Tier is ComputeTierDedicated or ComputeTierLowPriority.
	Tier        string            `json:"tier"`
	Description string            `json:"description,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// NotebookInstance describes a single persistent development machine.
type NotebookInstance struct {
	Name        string            `json:"name"`
	VMSize      string            `json:"vmSize"`
	Description string            `json:"description,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// Compute is a compute target observed in a workspace. Clusters and
// instances share one name space within the workspace.
type Compute struct {
	ID                string `json:"id,omitempty"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	VMSize            string `json:"vmSize,omitempty"`
	Location          string `json:"location,omitempty"`
	ProvisioningState string `json:"provisioningState,omitempty"`
}
