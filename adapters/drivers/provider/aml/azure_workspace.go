package aml

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v4"

	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/logging"
)

// WorkspaceGet looks up a workspace by name in the target resource group.
func (d *driver) WorkspaceGet(ctx context.Context, target *model.Target, name string) (l model.Lookup[*model.Workspace]) {
	ctx, cleanup := d.withMethodLogger(ctx, "WorkspaceGet")
	defer func() { cleanup(l.Err) }()
	ctx, cancel := context.WithTimeout(ctx, d.lookupTimeout)
	defer cancel()

	factory, err := d.clientFactory(target)
	if err != nil {
		return model.LookupFailed[*model.Workspace](err)
	}
	res, err := factory.NewWorkspacesClient().Get(ctx, target.ResourceGroup, name, nil)
	if err != nil {
		return lookupFailure[*model.Workspace](err)
	}
	return model.Found(workspaceToModel(&res.Workspace))
}

// WorkspaceCreate creates the workspace with a system-assigned identity and
// waits for provisioning. The storage account and key vault are created
// first unless ws names existing ones.
func (d *driver) WorkspaceCreate(ctx context.Context, target *model.Target, ws *model.Workspace) (out *model.Workspace, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "WorkspaceCreate")
	defer func() { cleanup(err) }()
	ctx, cancel := context.WithTimeout(ctx, d.createTimeout)
	defer cancel()

	log := logging.FromContext(ctx)

	storageID := ws.StorageAccountID
	if storageID == "" {
		if storageID, err = d.ensureStorageAccountCreated(ctx, target, ws); err != nil {
			return nil, fmt.Errorf("workspace storage account: %w", err)
		}
	}
	keyVaultID := ws.KeyVaultID
	if keyVaultID == "" {
		if keyVaultID, err = d.ensureKeyVaultCreated(ctx, target, ws); err != nil {
			return nil, fmt.Errorf("workspace key vault: %w", err)
		}
	}

	location := ws.Location
	if location == "" {
		location = d.location(target)
	}
	params := armmachinelearning.Workspace{
		Location: to.Ptr(location),
		Identity: &armmachinelearning.ManagedServiceIdentity{
			Type: to.Ptr(armmachinelearning.ManagedServiceIdentityTypeSystemAssigned),
		},
		Tags: azureTags(ws.Tags),
		Properties: &armmachinelearning.WorkspaceProperties{
			FriendlyName:        ptrOrNil(ws.DisplayName),
			Description:         ptrOrNil(ws.Description),
			StorageAccount:      to.Ptr(storageID),
			KeyVault:            to.Ptr(keyVaultID),
			ApplicationInsights: ptrOrNil(ws.ApplicationInsightsID),
			ContainerRegistry:   ptrOrNil(ws.ContainerRegistryID),
		},
	}

	factory, err := d.clientFactory(target)
	if err != nil {
		return nil, err
	}
	poller, err := factory.NewWorkspacesClient().BeginCreateOrUpdate(ctx, target.ResourceGroup, ws.Name, params, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create workspace: %w", err)
	}
	res, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", ws.Name, err)
	}
	log.Info(ctx, "workspace created", "workspace", ws.Name, "location", location)
	return workspaceToModel(&res.Workspace), nil
}

func workspaceToModel(w *armmachinelearning.Workspace) *model.Workspace {
	out := &model.Workspace{
		ID:       deref(w.ID),
		Name:     deref(w.Name),
		Location: deref(w.Location),
		Tags:     modelTags(w.Tags),
	}
	if p := w.Properties; p != nil {
		out.DisplayName = deref(p.FriendlyName)
		out.Description = deref(p.Description)
		out.StorageAccountID = deref(p.StorageAccount)
		out.KeyVaultID = deref(p.KeyVault)
		out.ApplicationInsightsID = deref(p.ApplicationInsights)
		out.ContainerRegistryID = deref(p.ContainerRegistry)
		if p.ProvisioningState != nil {
			out.ProvisioningState = string(*p.ProvisioningState)
		}
	}
	return out
}
