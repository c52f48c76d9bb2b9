package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kompox/amlops/domain"
	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/logging"
	"github.com/kompox/amlops/usecase/ensure"
	"github.com/kompox/amlops/usecase/journal"
)

// Setup ensures the workspace, the compute cluster and the notebook instance,
// then applies the environment. Steps run strictly in that order and stop at
// the first workspace or compute failure. An environment failure is reported
// and recorded but does not fail the run.
func (u *UseCase) Setup(ctx context.Context, in *SetupInput) (*SetupOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("setup input is nil: %w", model.ErrInvalid)
	}
	if missing := in.Target.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(missing, ", "), model.ErrMissingConfig)
	}
	if err := u.validate(in); err != nil {
		return nil, err
	}

	target := *in.Target
	if target.WorkspaceName == "" {
		target.WorkspaceName = in.Workspace.Name
	}
	if target.Location == "" {
		target.Location = in.Workspace.Location
	}

	log := logging.FromContext(ctx).With("subscription", target.SubscriptionID, "resourceGroup", target.ResourceGroup)
	ctx = logging.WithLogger(ctx, log)

	var runRepo domain.RunRepository
	if u.Repos != nil {
		runRepo = u.Repos.Run
	}
	rec := journal.Start(ctx, runRepo, &target)
	out := &SetupOutput{RunID: rec.RunID()}

	fail := func(err error) (*SetupOutput, error) {
		out.Status = model.RunStatusFailed
		rec.Finish(ctx, model.RunStatusFailed, err)
		return out, err
	}

	// Resource group
	if in.CreateResourceGroup {
		started := time.Now().UTC()
		op := ensure.Operation[*model.ResourceGroup]{
			Kind: "resource group",
			Name: target.ResourceGroup,
			Lookup: func(ctx context.Context, _ string) model.Lookup[*model.ResourceGroup] {
				return u.Ports.ResourceGroup.ResourceGroupGet(ctx, &target)
			},
			Create: func(ctx context.Context) (*model.ResourceGroup, error) {
				u.progress("Creating resource group...")
				return u.Ports.ResourceGroup.ResourceGroupCreate(ctx, &target, in.Workspace.Tags)
			},
			Retry: u.Retry,
		}
		rg, res, err := op.Execute(ctx)
		out.Steps = append(out.Steps, rec.Step(ctx, model.StepKindResourceGroup, target.ResourceGroup, stepAction(res), resourceGroupID(rg), started, err))
		if err != nil {
			return fail(err)
		}
		if res == ensure.ResultFound {
			u.progress("Found existing resource group: " + target.ResourceGroup)
		} else {
			u.progress("Created resource group: " + target.ResourceGroup)
		}
	}

	// Workspace
	started := time.Now().UTC()
	wsOp := ensure.Operation[*model.Workspace]{
		Kind: "workspace",
		Name: in.Workspace.Name,
		Lookup: func(ctx context.Context, name string) model.Lookup[*model.Workspace] {
			return u.Ports.Workspace.WorkspaceGet(ctx, &target, name)
		},
		Create: func(ctx context.Context) (*model.Workspace, error) {
			u.progress("Creating new workspace...")
			return u.Ports.Workspace.WorkspaceCreate(ctx, &target, in.Workspace)
		},
		Retry: u.Retry,
	}
	ws, res, err := wsOp.Execute(ctx)
	out.Steps = append(out.Steps, rec.Step(ctx, model.StepKindWorkspace, in.Workspace.Name, stepAction(res), workspaceID(ws), started, err))
	if err != nil {
		return fail(err)
	}
	out.Workspace = ws
	wsName := in.Workspace.Name
	if ws != nil && ws.Name != "" {
		wsName = ws.Name
	}
	if res == ensure.ResultFound {
		u.progress("Found existing workspace: " + wsName)
	} else {
		u.progress("Created workspace: " + wsName)
	}

	// Compute cluster
	started = time.Now().UTC()
	cc := in.ComputeCluster
	ccOp := ensure.Operation[*model.Compute]{
		Kind: "compute cluster",
		Name: cc.Name,
		Lookup: func(ctx context.Context, name string) model.Lookup[*model.Compute] {
			return u.Ports.Compute.ComputeGet(ctx, &target, name)
		},
		Create: func(ctx context.Context) (*model.Compute, error) {
			u.progress("Creating GPU compute cluster...")
			return u.Ports.Compute.ComputeClusterCreate(ctx, &target, cc)
		},
		Retry: u.Retry,
	}
	cluster, res, err := ccOp.Execute(ctx)
	out.Steps = append(out.Steps, rec.Step(ctx, model.StepKindComputeCluster, cc.Name, stepAction(res), computeID(cluster), started, err))
	if err != nil {
		return fail(err)
	}
	out.ComputeCluster = cluster
	if res == ensure.ResultFound {
		u.progress(fmt.Sprintf("Compute %s already exists.", cc.Name))
	} else {
		u.progress("Created GPU compute: " + cc.Name)
	}

	// Notebook instance
	started = time.Now().UTC()
	nb := in.NotebookInstance
	nbOp := ensure.Operation[*model.Compute]{
		Kind: "notebook instance",
		Name: nb.Name,
		Lookup: func(ctx context.Context, name string) model.Lookup[*model.Compute] {
			return u.Ports.Compute.ComputeGet(ctx, &target, name)
		},
		Create: func(ctx context.Context) (*model.Compute, error) {
			u.progress("Creating Jupyter Notebook instance...")
			return u.Ports.Compute.NotebookInstanceCreate(ctx, &target, nb)
		},
		Retry: u.Retry,
	}
	instance, res, err := nbOp.Execute(ctx)
	out.Steps = append(out.Steps, rec.Step(ctx, model.StepKindNotebookInstance, nb.Name, stepAction(res), computeID(instance), started, err))
	if err != nil {
		return fail(err)
	}
	out.NotebookInstance = instance
	if res == ensure.ResultFound {
		u.progress(fmt.Sprintf("Notebook instance %s already exists.", nb.Name))
	} else {
		u.progress("Created Jupyter Notebook instance: " + nb.Name)
	}

	// Environment
	status := model.RunStatusSucceeded
	started = time.Now().UTC()
	env, err := u.applyEnvironment(ctx, &target, in.Environment)
	envID := ""
	if env != nil {
		envID = env.ID
	}
	out.Steps = append(out.Steps, rec.Step(ctx, model.StepKindEnvironment, in.Environment.Name, model.StepActionApplied, envID, started, err))
	if err != nil {
		log.Warn(ctx, "environment apply failed", "name", in.Environment.Name, "err", err)
		u.progress("Error creating environment: " + err.Error())
		out.EnvironmentError = err.Error()
		status = model.RunStatusPartial
	} else {
		out.Environment = env
		u.progress("Created/updated environment: " + in.Environment.Name)
	}

	out.StudioURL = StudioURL(wsName)
	u.progress("")
	u.progress("Setup complete! You can now access your Azure ML Studio at:")
	u.progress(out.StudioURL)

	out.Status = status
	var runErr error
	if out.EnvironmentError != "" {
		runErr = errors.New(out.EnvironmentError)
	}
	rec.Finish(ctx, status, runErr)
	return out, nil
}

// applyEnvironment reads the conda file when the contents were not given
// inline, then applies the environment. A read failure is an environment
// failure like any provider error.
func (u *UseCase) applyEnvironment(ctx context.Context, target *model.Target, env *model.Environment) (*model.Environment, error) {
	desired := *env
	if desired.CondaSpec == "" && desired.CondaFile != "" {
		data, err := os.ReadFile(desired.CondaFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read conda file: %w", err)
		}
		desired.CondaSpec = string(data)
	}
	return u.Ports.Environment.EnvironmentApply(ctx, target, &desired)
}

func (u *UseCase) validate(in *SetupInput) error {
	var errs []error
	if u.Ports == nil {
		return fmt.Errorf("setup ports are not configured: %w", model.ErrInvalid)
	}
	if in.Workspace == nil {
		errs = append(errs, errors.New("workspace descriptor is required"))
	}
	if in.ComputeCluster == nil {
		errs = append(errs, errors.New("compute cluster descriptor is required"))
	}
	if in.NotebookInstance == nil {
		errs = append(errs, errors.New("notebook instance descriptor is required"))
	}
	if in.Environment == nil {
		errs = append(errs, errors.New("environment descriptor is required"))
	}
	if u.Ports.Workspace == nil || u.Ports.Compute == nil || u.Ports.Environment == nil {
		errs = append(errs, errors.New("workspace, compute and environment ports are required"))
	}
	if in.CreateResourceGroup && u.Ports.ResourceGroup == nil {
		errs = append(errs, errors.New("resource group port is required to create the resource group"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func (u *UseCase) progress(line string) {
	if u.Observer != nil {
		u.Observer.Progress(line)
	}
}

func stepAction(res ensure.Result) string {
	switch res {
	case ensure.ResultFound:
		return model.StepActionFound
	case ensure.ResultCreated:
		return model.StepActionCreated
	default:
		return model.StepActionFailed
	}
}

func resourceGroupID(rg *model.ResourceGroup) string {
	if rg == nil {
		return ""
	}
	return rg.ID
}

func workspaceID(ws *model.Workspace) string {
	if ws == nil {
		return ""
	}
	return ws.ID
}

func computeID(c *model.Compute) string {
	if c == nil {
		return ""
	}
	return c.ID
}
