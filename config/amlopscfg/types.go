// Package amlopscfg defines the amlops.yml schema, its defaults, and the
// environment overlay applied on top of it.
package amlopscfg

import "time"

// Root is the root structure of amlops.yml.
type Root struct {
	Version          string           `yaml:"version"`
	Azure            Azure            `yaml:"azure"`
	Timeouts         Timeouts         `yaml:"timeouts"`
	Workspace        Workspace        `yaml:"workspace"`
	ComputeCluster   ComputeCluster   `yaml:"computeCluster"`
	NotebookInstance NotebookInstance `yaml:"notebookInstance"`
	Environment      Environment      `yaml:"environment"`

	// BaseDir resolves relative paths (the conda file). It is the directory
	// of the loaded file, or empty for the working directory.
	BaseDir string `yaml:"-"`
}

// Azure holds subscription level settings. Secrets are never read from the
// file; they come from the process environment only.
type Azure struct {
	SubscriptionID      string `yaml:"subscriptionId,omitempty"`
	ResourceGroup       string `yaml:"resourceGroup,omitempty"`
	Location            string `yaml:"location"`
	AuthMethod          string `yaml:"authMethod"` // default | azure_cli | azure_developer_cli | client_secret | managed_identity | workload_identity
	TenantID            string `yaml:"tenantId,omitempty"`
	ClientID            string `yaml:"clientId,omitempty"`
	CreateResourceGroup bool   `yaml:"createResourceGroup,omitempty"`
}

// Timeouts bounds provider calls.
type Timeouts struct {
	Lookup            time.Duration `yaml:"lookup"`
	Create            time.Duration `yaml:"create"`
	RetryMaxAttempts  int           `yaml:"retryMaxAttempts"`
	RetryInitialDelay time.Duration `yaml:"retryInitialDelay"`
}

// Workspace describes the Machine Learning workspace.
type Workspace struct {
	Name                string            `yaml:"name"`
	DisplayName         string            `yaml:"displayName"`
	Description         string            `yaml:"description"`
	StorageAccount      string            `yaml:"storageAccount,omitempty"`      // existing resource ID
	KeyVault            string            `yaml:"keyVault,omitempty"`            // existing resource ID
	ApplicationInsights string            `yaml:"applicationInsights,omitempty"` // existing resource ID
	ContainerRegistry   string            `yaml:"containerRegistry,omitempty"`   // existing resource ID
	Tags                map[string]string `yaml:"tags,omitempty"`
}

// ComputeCluster describes the auto-scaling GPU cluster.
type ComputeCluster struct {
	Name                    string        `yaml:"name"`
	VMSize                  string        `yaml:"vmSize"`
	MinInstances            int           `yaml:"minInstances"`
	MaxInstances            int           `yaml:"maxInstances"`
	IdleTimeBeforeScaleDown time.Duration `yaml:"idleTimeBeforeScaleDown"`
	Tier                    string        `yaml:"tier"` // dedicated | low_priority
	Description             string        `yaml:"description,omitempty"`
}

// NotebookInstance describes the notebook compute instance.
type NotebookInstance struct {
	Name        string `yaml:"name"`
	VMSize      string `yaml:"vmSize"`
	Description string `yaml:"description"`
}

// Environment describes the container environment.
type Environment struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"` // "auto" or an explicit version
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	CondaFile   string `yaml:"condaFile"`
}
