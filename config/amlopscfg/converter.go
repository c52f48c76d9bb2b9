package amlopscfg

import (
	"path/filepath"
	"strings"

	"github.com/kompox/amlops/domain/model"
)

// managedByTag marks every resource created by amlops.
const managedByTag = "managed-by"

// Descriptors holds the desired state of every provisioned resource.
type Descriptors struct {
	Workspace        *model.Workspace
	ComputeCluster   *model.ComputeCluster
	NotebookInstance *model.NotebookInstance
	Environment      *model.Environment
}

// Target returns the provisioning target.
func (r *Root) Target() *model.Target {
	return &model.Target{
		SubscriptionID: strings.TrimSpace(r.Azure.SubscriptionID),
		ResourceGroup:  strings.TrimSpace(r.Azure.ResourceGroup),
		WorkspaceName:  r.Workspace.Name,
		Location:       r.Azure.Location,
	}
}

// ToDescriptors converts the configuration to domain descriptors. The conda
// file is only resolved to a path here; it is read by the environment step.
func (r *Root) ToDescriptors() (*Descriptors, error) {
	tags := map[string]string{managedByTag: "amlops"}
	for k, v := range r.Workspace.Tags {
		tags[k] = v
	}

	version := strings.TrimSpace(r.Environment.Version)
	if strings.EqualFold(version, model.EnvironmentVersionAuto) {
		version = model.EnvironmentVersionAuto
	}

	return &Descriptors{
		Workspace: &model.Workspace{
			Name:                  r.Workspace.Name,
			Location:              r.Azure.Location,
			DisplayName:           r.Workspace.DisplayName,
			Description:           r.Workspace.Description,
			StorageAccountID:      r.Workspace.StorageAccount,
			KeyVaultID:            r.Workspace.KeyVault,
			ApplicationInsightsID: r.Workspace.ApplicationInsights,
			ContainerRegistryID:   r.Workspace.ContainerRegistry,
			Tags:                  tags,
		},
		ComputeCluster: &model.ComputeCluster{
			Name:                    r.ComputeCluster.Name,
			VMSize:                  r.ComputeCluster.VMSize,
			MinInstances:            r.ComputeCluster.MinInstances,
			MaxInstances:            r.ComputeCluster.MaxInstances,
			IdleTimeBeforeScaleDown: r.ComputeCluster.IdleTimeBeforeScaleDown,
			Tier:                    r.ComputeCluster.Tier,
			Description:             r.ComputeCluster.Description,
			Tags:                    map[string]string{managedByTag: "amlops"},
		},
		NotebookInstance: &model.NotebookInstance{
			Name:        r.NotebookInstance.Name,
			VMSize:      r.NotebookInstance.VMSize,
			Description: r.NotebookInstance.Description,
			Tags:        map[string]string{managedByTag: "amlops"},
		},
		Environment: &model.Environment{
			Name:        r.Environment.Name,
			Version:     version,
			Description: r.Environment.Description,
			Image:       r.Environment.Image,
			CondaFile:   r.CondaFilePath(),
			OSType:      "Linux",
			Tags:        map[string]string{managedByTag: "amlops"},
		},
	}, nil
}

// CondaFilePath resolves the conda file against BaseDir.
func (r *Root) CondaFilePath() string {
	p := r.Environment.CondaFile
	if p == "" || filepath.IsAbs(p) || r.BaseDir == "" {
		return p
	}
	return filepath.Join(r.BaseDir, p)
}

// DriverSettings returns the settings map consumed by the provider driver.
// Secrets are taken from getenv only.
func (r *Root) DriverSettings(getenv func(string) string) map[string]string {
	s := map[string]string{
		"AZURE_SUBSCRIPTION_ID":      r.Azure.SubscriptionID,
		"AZURE_LOCATION":             r.Azure.Location,
		"AZURE_AUTH_METHOD":          r.Azure.AuthMethod,
		"AZURE_TENANT_ID":            r.Azure.TenantID,
		"AZURE_CLIENT_ID":            r.Azure.ClientID,
		"AZURE_CLIENT_SECRET":        getenv("AZURE_CLIENT_SECRET"),
		"AZURE_FEDERATED_TOKEN_FILE": getenv("AZURE_FEDERATED_TOKEN_FILE"),
		"AML_LOOKUP_TIMEOUT":         r.Timeouts.Lookup.String(),
		"AML_CREATE_TIMEOUT":         r.Timeouts.Create.String(),
		"AML_SDK_MAX_RETRIES":        getenv("AML_SDK_MAX_RETRIES"),
	}
	for k, v := range s {
		if v == "" {
			delete(s, k)
		}
	}
	return s
}
