package aml

import (
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v4"

	"github.com/kompox/amlops/domain/model"
)

func TestISODuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "PT0S"},
		{30 * time.Minute, "PT30M"},
		{1800 * time.Second, "PT30M"},
		{2*time.Hour + 5*time.Second, "PT2H5S"},
		{90 * time.Second, "PT1M30S"},
		{1500 * time.Millisecond, "PT1S"},
	}
	for _, tt := range tests {
		if got := isoDuration(tt.in); got != tt.want {
			t.Errorf("isoDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVMPriority(t *testing.T) {
	if got := vmPriority(model.ComputeTierDedicated); got != armmachinelearning.VMPriorityDedicated {
		t.Errorf("dedicated = %v", got)
	}
	if got := vmPriority(model.ComputeTierLowPriority); got != armmachinelearning.VMPriorityLowPriority {
		t.Errorf("low_priority = %v", got)
	}
	if got := vmPriority(""); got != armmachinelearning.VMPriorityDedicated {
		t.Errorf("empty = %v", got)
	}
}

func TestComputeToModel(t *testing.T) {
	cluster := computeToModel(&armmachinelearning.ComputeResource{
		ID:       to.Ptr("/subscriptions/sub/resourceGroups/rg/providers/Microsoft.MachineLearningServices/workspaces/ws/computes/gpu-cluster"),
		Name:     to.Ptr("gpu-cluster"),
		Location: to.Ptr("eastus"),
		Properties: &armmachinelearning.AmlCompute{
			ComputeType:       to.Ptr(armmachinelearning.ComputeTypeAmlCompute),
			ProvisioningState: to.Ptr(armmachinelearning.ProvisioningStateSucceeded),
			Properties: &armmachinelearning.AmlComputeProperties{
				VMSize: to.Ptr("Standard_NC6s_v3"),
			},
		},
	})
	if cluster.Name != "gpu-cluster" || cluster.Type != model.ComputeTypeCluster || cluster.VMSize != "Standard_NC6s_v3" || cluster.ProvisioningState != "Succeeded" {
		t.Errorf("cluster = %+v", cluster)
	}

	instance := computeToModel(&armmachinelearning.ComputeResource{
		Name: to.Ptr("jupyter-notebook"),
		Properties: &armmachinelearning.ComputeInstance{
			ComputeType: to.Ptr(armmachinelearning.ComputeTypeComputeInstance),
			Properties: &armmachinelearning.ComputeInstanceProperties{
				VMSize: to.Ptr("Standard_DS3_v2"),
			},
		},
	})
	if instance.Type != model.ComputeTypeInstance || instance.VMSize != "Standard_DS3_v2" {
		t.Errorf("instance = %+v", instance)
	}

	bare := computeToModel(&armmachinelearning.ComputeResource{Name: to.Ptr("x")})
	if bare.Name != "x" || bare.Type != "" {
		t.Errorf("bare = %+v", bare)
	}
}

func TestWorkspaceToModel(t *testing.T) {
	ws := workspaceToModel(&armmachinelearning.Workspace{
		ID:       to.Ptr("/ws"),
		Name:     to.Ptr("gpu-ml-workspace"),
		Location: to.Ptr("eastus"),
		Tags:     map[string]*string{"managed-by": to.Ptr("amlops")},
		Properties: &armmachinelearning.WorkspaceProperties{
			FriendlyName:      to.Ptr("GPU ML Workspace"),
			StorageAccount:    to.Ptr("/st"),
			KeyVault:          to.Ptr("/kv"),
			ProvisioningState: to.Ptr(armmachinelearning.ProvisioningStateSucceeded),
		},
	})
	if ws.Name != "gpu-ml-workspace" || ws.DisplayName != "GPU ML Workspace" || ws.StorageAccountID != "/st" || ws.KeyVaultID != "/kv" {
		t.Errorf("workspace = %+v", ws)
	}
	if ws.ProvisioningState != "Succeeded" || ws.Tags["managed-by"] != "amlops" {
		t.Errorf("workspace = %+v", ws)
	}
}
