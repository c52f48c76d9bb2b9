package amlopscfg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/naming"
)

var authMethods = map[string]bool{
	"default":             true,
	"azure_cli":           true,
	"azure_developer_cli": true,
	"client_secret":       true,
	"managed_identity":    true,
	"workload_identity":   true,
}

// Validate performs semantic validation. Required environment settings are
// reported by Missing, not here. All problems are returned joined.
func (r *Root) Validate() error {
	var errs []error
	add := func(field string, err error) {
		errs = append(errs, fmt.Errorf("%s: %w", field, err))
	}

	if strings.TrimSpace(r.Azure.Location) == "" {
		add("azure.location", errors.New("must not be empty"))
	}
	if !authMethods[r.Azure.AuthMethod] {
		add("azure.authMethod", fmt.Errorf("unsupported value %q", r.Azure.AuthMethod))
	}
	if r.Timeouts.Lookup <= 0 {
		add("timeouts.lookup", errors.New("must be positive"))
	}
	if r.Timeouts.Create <= 0 {
		add("timeouts.create", errors.New("must be positive"))
	}
	if r.Timeouts.RetryMaxAttempts < 0 {
		add("timeouts.retryMaxAttempts", errors.New("must not be negative"))
	}

	if err := naming.ValidateWorkspaceName(r.Workspace.Name); err != nil {
		add("workspace.name", err)
	}
	for field, id := range map[string]string{
		"workspace.storageAccount":      r.Workspace.StorageAccount,
		"workspace.keyVault":            r.Workspace.KeyVault,
		"workspace.applicationInsights": r.Workspace.ApplicationInsights,
		"workspace.containerRegistry":   r.Workspace.ContainerRegistry,
	} {
		if id == "" {
			continue
		}
		if _, err := arm.ParseResourceID(id); err != nil {
			add(field, err)
		}
	}

	cc := r.ComputeCluster
	if err := naming.ValidateComputeName(cc.Name); err != nil {
		add("computeCluster.name", err)
	}
	if strings.TrimSpace(cc.VMSize) == "" {
		add("computeCluster.vmSize", errors.New("must not be empty"))
	}
	if cc.MinInstances < 0 {
		add("computeCluster.minInstances", errors.New("must not be negative"))
	}
	if cc.MaxInstances < 1 {
		add("computeCluster.maxInstances", errors.New("must be at least 1"))
	}
	if cc.MinInstances > cc.MaxInstances {
		add("computeCluster.minInstances", fmt.Errorf("%d exceeds maxInstances %d", cc.MinInstances, cc.MaxInstances))
	}
	if cc.IdleTimeBeforeScaleDown < 0 {
		add("computeCluster.idleTimeBeforeScaleDown", errors.New("must not be negative"))
	}
	if cc.Tier != model.ComputeTierDedicated && cc.Tier != model.ComputeTierLowPriority {
		add("computeCluster.tier", fmt.Errorf("must be %q or %q, got %q", model.ComputeTierDedicated, model.ComputeTierLowPriority, cc.Tier))
	}

	ni := r.NotebookInstance
	if err := naming.ValidateComputeName(ni.Name); err != nil {
		add("notebookInstance.name", err)
	}
	if strings.TrimSpace(ni.VMSize) == "" {
		add("notebookInstance.vmSize", errors.New("must not be empty"))
	}
	if strings.EqualFold(ni.Name, cc.Name) {
		add("notebookInstance.name", fmt.Errorf("%q is already used by computeCluster.name", ni.Name))
	}

	env := r.Environment
	if err := naming.ValidateEnvironmentName(env.Name); err != nil {
		add("environment.name", err)
	}
	if strings.TrimSpace(env.Version) == "" {
		add("environment.version", errors.New("must not be empty (use \"auto\")"))
	}
	if strings.TrimSpace(env.Image) == "" {
		add("environment.image", errors.New("must not be empty"))
	}
	if strings.TrimSpace(env.CondaFile) == "" {
		add("environment.condaFile", errors.New("must not be empty"))
	}

	return errors.Join(errs...)
}
