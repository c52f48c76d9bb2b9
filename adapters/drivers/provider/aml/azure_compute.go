package aml

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v4"

	"github.com/kompox/amlops/domain/model"
)

// ComputeGet looks up a compute target of any type by name.
func (d *driver) ComputeGet(ctx context.Context, target *model.Target, name string) (l model.Lookup[*model.Compute]) {
	ctx, cleanup := d.withMethodLogger(ctx, "ComputeGet")
	defer func() { cleanup(l.Err) }()
	ctx, cancel := context.WithTimeout(ctx, d.lookupTimeout)
	defer cancel()

	factory, err := d.clientFactory(target)
	if err != nil {
		return model.LookupFailed[*model.Compute](err)
	}
	res, err := factory.NewComputeClient().Get(ctx, target.ResourceGroup, target.WorkspaceName, name, nil)
	if err != nil {
		return lookupFailure[*model.Compute](err)
	}
	return model.Found(computeToModel(&res.ComputeResource))
}

// ComputeClusterCreate creates an autoscaling AmlCompute cluster.
func (d *driver) ComputeClusterCreate(ctx context.Context, target *model.Target, c *model.ComputeCluster) (out *model.Compute, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ComputeClusterCreate")
	defer func() { cleanup(err) }()

	params := armmachinelearning.ComputeResource{
		Location: to.Ptr(d.location(target)),
		Tags:     azureTags(c.Tags),
		Properties: &armmachinelearning.AmlCompute{
			ComputeType: to.Ptr(armmachinelearning.ComputeTypeAmlCompute),
			Description: ptrOrNil(c.Description),
			Properties: &armmachinelearning.AmlComputeProperties{
				VMSize:     to.Ptr(c.VMSize),
				VMPriority: to.Ptr(vmPriority(c.Tier)),
				ScaleSettings: &armmachinelearning.ScaleSettings{
					MinNodeCount:                to.Ptr(int32(c.MinInstances)),
					MaxNodeCount:                to.Ptr(int32(c.MaxInstances)),
					NodeIdleTimeBeforeScaleDown: to.Ptr(isoDuration(c.IdleTimeBeforeScaleDown)),
				},
			},
		},
	}
	return d.createCompute(ctx, target, c.Name, params)
}

// NotebookInstanceCreate creates a single-node ComputeInstance.
func (d *driver) NotebookInstanceCreate(ctx context.Context, target *model.Target, n *model.NotebookInstance) (out *model.Compute, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NotebookInstanceCreate")
	defer func() { cleanup(err) }()

	params := armmachinelearning.ComputeResource{
		Location: to.Ptr(d.location(target)),
		Tags:     azureTags(n.Tags),
		Properties: &armmachinelearning.ComputeInstance{
			ComputeType: to.Ptr(armmachinelearning.ComputeTypeComputeInstance),
			Description: ptrOrNil(n.Description),
			Properties: &armmachinelearning.ComputeInstanceProperties{
				VMSize: to.Ptr(n.VMSize),
			},
		},
	}
	return d.createCompute(ctx, target, n.Name, params)
}

func (d *driver) createCompute(ctx context.Context, target *model.Target, name string, params armmachinelearning.ComputeResource) (*model.Compute, error) {
	ctx, cancel := context.WithTimeout(ctx, d.createTimeout)
	defer cancel()

	factory, err := d.clientFactory(target)
	if err != nil {
		return nil, err
	}
	poller, err := factory.NewComputeClient().BeginCreateOrUpdate(ctx, target.ResourceGroup, target.WorkspaceName, name, params, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create compute: %w", err)
	}
	res, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create compute %s: %w", name, err)
	}
	return computeToModel(&res.ComputeResource), nil
}

func computeToModel(r *armmachinelearning.ComputeResource) *model.Compute {
	out := &model.Compute{
		ID:       deref(r.ID),
		Name:     deref(r.Name),
		Location: deref(r.Location),
	}
	if r.Properties == nil {
		return out
	}
	if c := r.Properties.GetCompute(); c != nil {
		if c.ComputeType != nil {
			out.Type = string(*c.ComputeType)
		}
		if c.ProvisioningState != nil {
			out.ProvisioningState = string(*c.ProvisioningState)
		}
	}
	switch p := r.Properties.(type) {
	case *armmachinelearning.AmlCompute:
		if p.Properties != nil {
			out.VMSize = deref(p.Properties.VMSize)
		}
	case *armmachinelearning.ComputeInstance:
		if p.Properties != nil {
			out.VMSize = deref(p.Properties.VMSize)
		}
	}
	return out
}

func vmPriority(tier string) armmachinelearning.VMPriority {
	if strings.EqualFold(tier, model.ComputeTierLowPriority) {
		return armmachinelearning.VMPriorityLowPriority
	}
	return armmachinelearning.VMPriorityDedicated
}

// isoDuration formats d as an ISO 8601 duration with whole seconds
// (e.g., 1800s is "PT30M").
func isoDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return "PT0S"
	}
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	var b strings.Builder
	b.WriteString("PT")
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
