package model

import "strings"

// Target identifies where resources are provisioned.
type Target struct {
	// SubscriptionID is the Azure subscription ID.
	SubscriptionID string
	// ResourceGroup is the resource group holding the workspace.
	ResourceGroup string
	// WorkspaceName is the Machine Learning workspace name.
	WorkspaceName string
	// Location is the Azure region (e.g., "eastus").
	Location string
}

// Missing returns the names of the required environment settings that are empty.
func (t *Target) Missing() []string {
	var missing []string
	if t == nil || strings.TrimSpace(t.SubscriptionID) == "" {
		missing = append(missing, "AZURE_SUBSCRIPTION_ID")
	}
	if t == nil || strings.TrimSpace(t.ResourceGroup) == "" {
		missing = append(missing, "AZURE_RESOURCE_GROUP")
	}
	return missing
}

// ResourceGroup is an Azure resource group.
type ResourceGroup struct {
	ID       string
	Name     string
	Location string
}
