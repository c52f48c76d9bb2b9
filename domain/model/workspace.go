package model

// Workspace is the desired or observed state of a Machine Learning workspace.
type Workspace struct {
	// ID is the ARM resource ID (read-only, populated by the provider).
	ID string `json:"id,omitempty"`
	// Name is the workspace name and lookup key.
	Name string `json:"name"`
	// Location is the Azure region.
	Location string `json:"location"`
	// DisplayName is the friendly name shown in the studio.
	DisplayName string `json:"displayName,omitempty"`
	// Description is a free-form description.
	Description string `json:"description,omitempty"`

	// StorageAccountID, KeyVaultID, ApplicationInsightsID and ContainerRegistryID
	// reference existing dependent resources by ARM resource ID. When the
	// storage account or key vault ID is empty the driver provisions one.
	StorageAccountID      string `json:"storageAccountId,omitempty"`
	KeyVaultID            string `json:"keyVaultId,omitempty"`
	ApplicationInsightsID string `json:"applicationInsightsId,omitempty"`
	ContainerRegistryID   string `json:"containerRegistryId,omitempty"`

	Tags map[string]string `json:"tags,omitempty"`

	// ProvisioningState is the provider state (read-only).
	ProvisioningState string `json:"provisioningState,omitempty"`
}
