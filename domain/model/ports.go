package model

import "context"

// ResourceGroupPort looks up and creates resource groups.
type ResourceGroupPort interface {
	ResourceGroupGet(ctx context.Context, target *Target) Lookup[*ResourceGroup]
	ResourceGroupCreate(ctx context.Context, target *Target, tags map[string]string) (*ResourceGroup, error)
}

// WorkspacePort looks up and creates Machine Learning workspaces.
type WorkspacePort interface {
	// WorkspaceGet reports whether the named workspace exists.
	WorkspaceGet(ctx context.Context, target *Target, name string) Lookup[*Workspace]
	// WorkspaceCreate creates the workspace and blocks until the provider
	// operation completes.
	WorkspaceCreate(ctx context.Context, target *Target, ws *Workspace) (*Workspace, error)
}

// ComputePort looks up and creates compute targets inside a workspace.
type ComputePort interface {
	ComputeGet(ctx context.Context, target *Target, name string) Lookup[*Compute]
	ComputeClusterCreate(ctx context.Context, target *Target, cluster *ComputeCluster) (*Compute, error)
	NotebookInstanceCreate(ctx context.Context, target *Target, instance *NotebookInstance) (*Compute, error)
}

// EnvironmentPort applies environment definitions.
type EnvironmentPort interface {
	// EnvironmentApply creates or overwrites the environment version.
	// A Version of EnvironmentVersionAuto resolves to the next free version.
	EnvironmentApply(ctx context.Context, target *Target, env *Environment) (*Environment, error)
}
