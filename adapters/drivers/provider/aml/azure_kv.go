package aml

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"

	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/logging"
	"github.com/kompox/amlops/internal/naming"
)

// ensureKeyVaultCreated returns the ID of the workspace key vault, creating
// an RBAC-enabled standard vault when absent.
func (d *driver) ensureKeyVaultCreated(ctx context.Context, target *model.Target, ws *model.Workspace) (string, error) {
	log := logging.FromContext(ctx)

	rg := target.ResourceGroup
	vaultName := naming.KeyVaultName(d.subscriptionID(target), rg, ws.Name)

	vaultsClient, err := armkeyvault.NewVaultsClient(d.subscriptionID(target), d.TokenCredential, d.clientOptions())
	if err != nil {
		return "", fmt.Errorf("new key vaults client: %w", err)
	}

	existing, err := vaultsClient.Get(ctx, rg, vaultName, nil)
	if err == nil {
		return deref(existing.ID), nil
	}
	if !isNotFound(err) {
		return "", fmt.Errorf("get key vault %s: %w", vaultName, err)
	}

	tenantID, err := d.tenantID(ctx, target)
	if err != nil {
		return "", err
	}

	log.Info(ctx, "Creating key vault", "vault", vaultName, "resource_group", rg)
	location := ws.Location
	if location == "" {
		location = d.location(target)
	}
	params := armkeyvault.VaultCreateOrUpdateParameters{
		Location: to.Ptr(location),
		Tags:     azureTags(ws.Tags),
		Properties: &armkeyvault.VaultProperties{
			TenantID: to.Ptr(tenantID),
			SKU: &armkeyvault.SKU{
				Family: to.Ptr(armkeyvault.SKUFamilyA),
				Name:   to.Ptr(armkeyvault.SKUNameStandard),
			},
			EnableRbacAuthorization: to.Ptr(true),
			AccessPolicies:          []*armkeyvault.AccessPolicyEntry{},
		},
	}

	poller, err := vaultsClient.BeginCreateOrUpdate(ctx, rg, vaultName, params, nil)
	if err != nil {
		return "", fmt.Errorf("begin create key vault: %w", err)
	}
	res, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("create key vault: %w", err)
	}

	log.Info(ctx, "Key vault created", "vault", vaultName)
	return deref(res.ID), nil
}

// tenantID returns the configured tenant or the tenant owning the target subscription.
func (d *driver) tenantID(ctx context.Context, target *model.Target) (string, error) {
	if d.AzureTenantId != "" {
		return d.AzureTenantId, nil
	}
	client, err := armsubscriptions.NewClient(d.TokenCredential, d.clientOptions())
	if err != nil {
		return "", fmt.Errorf("new subscriptions client: %w", err)
	}
	res, err := client.Get(ctx, d.subscriptionID(target), nil)
	if err != nil {
		return "", fmt.Errorf("get subscription %s: %w", d.subscriptionID(target), err)
	}
	if res.TenantID == nil || *res.TenantID == "" {
		return "", fmt.Errorf("subscription %s has no tenant ID", d.subscriptionID(target))
	}
	return *res.TenantID, nil
}
