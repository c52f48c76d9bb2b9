package aml

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"

	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/logging"
	"github.com/kompox/amlops/internal/naming"
)

// ensureStorageAccountCreated returns the ID of the workspace storage
// account, creating it when absent. The name is derived from the target and
// workspace so repeated runs find the same account.
func (d *driver) ensureStorageAccountCreated(ctx context.Context, target *model.Target, ws *model.Workspace) (string, error) {
	log := logging.FromContext(ctx)

	rg := target.ResourceGroup
	accountName := naming.StorageAccountName(d.subscriptionID(target), rg, ws.Name)

	accountsClient, err := armstorage.NewAccountsClient(d.subscriptionID(target), d.TokenCredential, d.clientOptions())
	if err != nil {
		return "", fmt.Errorf("new storage accounts client: %w", err)
	}

	existing, err := accountsClient.GetProperties(ctx, rg, accountName, nil)
	if err == nil {
		return deref(existing.ID), nil
	}
	if !isNotFound(err) {
		return "", fmt.Errorf("get storage account %s: %w", accountName, err)
	}

	log.Info(ctx, "Creating storage account", "account", accountName, "resource_group", rg)
	location := ws.Location
	if location == "" {
		location = d.location(target)
	}
	params := armstorage.AccountCreateParameters{
		SKU: &armstorage.SKU{
			Name: to.Ptr(armstorage.SKUNameStandardLRS),
		},
		Kind:     to.Ptr(armstorage.KindStorageV2),
		Location: to.Ptr(location),
		Tags:     azureTags(ws.Tags),
		Properties: &armstorage.AccountPropertiesCreateParameters{
			AllowBlobPublicAccess:  to.Ptr(false),
			MinimumTLSVersion:      to.Ptr(armstorage.MinimumTLSVersionTLS12),
			EnableHTTPSTrafficOnly: to.Ptr(true),
		},
	}

	poller, err := accountsClient.BeginCreate(ctx, rg, accountName, params, nil)
	if err != nil {
		return "", fmt.Errorf("begin create storage account: %w", err)
	}
	res, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("create storage account: %w", err)
	}

	log.Info(ctx, "Storage account created", "account", accountName)
	return deref(res.ID), nil
}
