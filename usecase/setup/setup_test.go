package setup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kompox/amlops/adapters/store/inmem"
	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/retry"
)

// fakeProvider implements every provider port and records call order.
type fakeProvider struct {
	calls     []string
	existing  map[string]bool
	lookupErr map[string]error
	createErr map[string]error
	envErr    error
	applied   *model.Environment
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{existing: map[string]bool{}, lookupErr: map[string]error{}, createErr: map[string]error{}}
}

func (f *fakeProvider) ResourceGroupGet(_ context.Context, t *model.Target) model.Lookup[*model.ResourceGroup] {
	f.calls = append(f.calls, "get-rg:"+t.ResourceGroup)
	if err := f.lookupErr[t.ResourceGroup]; err != nil {
		return model.LookupFailed[*model.ResourceGroup](err)
	}
	if f.existing[t.ResourceGroup] {
		return model.Found(&model.ResourceGroup{ID: "/rg/" + t.ResourceGroup, Name: t.ResourceGroup})
	}
	return model.NotFound[*model.ResourceGroup]()
}

func (f *fakeProvider) ResourceGroupCreate(_ context.Context, t *model.Target, _ map[string]string) (*model.ResourceGroup, error) {
	f.calls = append(f.calls, "create-rg:"+t.ResourceGroup)
	f.existing[t.ResourceGroup] = true
	return &model.ResourceGroup{ID: "/rg/" + t.ResourceGroup, Name: t.ResourceGroup}, nil
}

func (f *fakeProvider) WorkspaceGet(_ context.Context, _ *model.Target, name string) model.Lookup[*model.Workspace] {
	f.calls = append(f.calls, "get-ws:"+name)
	if err := f.lookupErr[name]; err != nil {
		return model.LookupFailed[*model.Workspace](err)
	}
	if f.existing[name] {
		return model.Found(&model.Workspace{ID: "/ws/" + name, Name: name})
	}
	return model.NotFound[*model.Workspace]()
}

func (f *fakeProvider) WorkspaceCreate(_ context.Context, _ *model.Target, ws *model.Workspace) (*model.Workspace, error) {
	f.calls = append(f.calls, "create-ws:"+ws.Name)
	if err := f.createErr[ws.Name]; err != nil {
		return nil, err
	}
	f.existing[ws.Name] = true
	return &model.Workspace{ID: "/ws/" + ws.Name, Name: ws.Name}, nil
}

func (f *fakeProvider) ComputeGet(_ context.Context, _ *model.Target, name string) model.Lookup[*model.Compute] {
	f.calls = append(f.calls, "get-compute:"+name)
	if err := f.lookupErr[name]; err != nil {
		return model.LookupFailed[*model.Compute](err)
	}
	if f.existing[name] {
		return model.Found(&model.Compute{ID: "/compute/" + name, Name: name})
	}
	return model.NotFound[*model.Compute]()
}

func (f *fakeProvider) ComputeClusterCreate(_ context.Context, _ *model.Target, c *model.ComputeCluster) (*model.Compute, error) {
	f.calls = append(f.calls, "create-cluster:"+c.Name)
	if err := f.createErr[c.Name]; err != nil {
		return nil, err
	}
	f.existing[c.Name] = true
	return &model.Compute{ID: "/compute/" + c.Name, Name: c.Name, Type: model.ComputeTypeCluster}, nil
}

func (f *fakeProvider) NotebookInstanceCreate(_ context.Context, _ *model.Target, n *model.NotebookInstance) (*model.Compute, error) {
	f.calls = append(f.calls, "create-notebook:"+n.Name)
	if err := f.createErr[n.Name]; err != nil {
		return nil, err
	}
	f.existing[n.Name] = true
	return &model.Compute{ID: "/compute/" + n.Name, Name: n.Name, Type: model.ComputeTypeInstance}, nil
}

func (f *fakeProvider) EnvironmentApply(_ context.Context, _ *model.Target, env *model.Environment) (*model.Environment, error) {
	f.calls = append(f.calls, "apply-env:"+env.Name)
	if f.envErr != nil {
		return nil, f.envErr
	}
	f.applied = env
	applied := *env
	applied.Version = "1"
	applied.ID = "/env/" + env.Name + "/versions/1"
	return &applied, nil
}

type lines struct{ got []string }

func (l *lines) Progress(line string) { l.got = append(l.got, line) }

func newInput() *SetupInput {
	return &SetupInput{
		Target:           &model.Target{SubscriptionID: "sub", ResourceGroup: "rg", Location: "eastus"},
		Workspace:        &model.Workspace{Name: "gpu-ml-workspace", Location: "eastus", DisplayName: "GPU ML Workspace"},
		ComputeCluster:   &model.ComputeCluster{Name: "gpu-cluster", VMSize: "Standard_NC6s_v3", MaxInstances: 4, IdleTimeBeforeScaleDown: 30 * time.Minute, Tier: model.ComputeTierDedicated},
		NotebookInstance: &model.NotebookInstance{Name: "jupyter-notebook", VMSize: "Standard_DS3_v2"},
		Environment:      &model.Environment{Name: "gpu-inference-env", Version: model.EnvironmentVersionAuto, Image: "img"},
	}
}

func newUseCase(f *fakeProvider, obs Observer) *UseCase {
	return &UseCase{
		Repos:    &Repos{Run: inmem.NewRunRepository()},
		Ports:    &Ports{ResourceGroup: f, Workspace: f, Compute: f, Environment: f},
		Observer: obs,
		Retry:    []retry.Option{retry.WithMaxRetries(2), retry.WithInitialDelay(time.Millisecond), retry.WithMaxDelay(time.Millisecond)},
	}
}

const studioURL = "https://ml.azure.com/workspaces/gpu-ml-workspace/overview"

func TestSetup_FreshSubscription(t *testing.T) {
	f := newFakeProvider()
	obs := &lines{}
	uc := newUseCase(f, obs)

	out, err := uc.Setup(context.Background(), newInput())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	wantCalls := []string{
		"get-ws:gpu-ml-workspace", "create-ws:gpu-ml-workspace",
		"get-compute:gpu-cluster", "create-cluster:gpu-cluster",
		"get-compute:jupyter-notebook", "create-notebook:jupyter-notebook",
		"apply-env:gpu-inference-env",
	}
	if !slices.Equal(f.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", f.calls, wantCalls)
	}
	wantLines := []string{
		"Creating new workspace...",
		"Created workspace: gpu-ml-workspace",
		"Creating GPU compute cluster...",
		"Created GPU compute: gpu-cluster",
		"Creating Jupyter Notebook instance...",
		"Created Jupyter Notebook instance: jupyter-notebook",
		"Created/updated environment: gpu-inference-env",
		"",
		"Setup complete! You can now access your Azure ML Studio at:",
		studioURL,
	}
	if !slices.Equal(obs.got, wantLines) {
		t.Errorf("progress = %q, want %q", obs.got, wantLines)
	}

	if out.Status != model.RunStatusSucceeded || out.StudioURL != studioURL {
		t.Errorf("status = %q url = %q", out.Status, out.StudioURL)
	}
	if len(out.Steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(out.Steps))
	}
	if out.Steps[0].Action != model.StepActionCreated || out.Steps[3].Action != model.StepActionApplied {
		t.Errorf("step actions = %q, %q", out.Steps[0].Action, out.Steps[3].Action)
	}

	run, err := uc.Repos.Run.GetRun(context.Background(), out.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != model.RunStatusSucceeded {
		t.Errorf("run status = %q", run.Status)
	}
	steps, err := uc.Repos.Run.ListSteps(context.Background(), out.RunID)
	if err != nil {
		t.Fatalf("ListSteps: %v", err)
	}
	if len(steps) != 4 {
		t.Errorf("journal steps = %d, want 4", len(steps))
	}
}

func TestSetup_EverythingExists(t *testing.T) {
	f := newFakeProvider()
	f.existing["gpu-ml-workspace"] = true
	f.existing["gpu-cluster"] = true
	f.existing["jupyter-notebook"] = true
	obs := &lines{}

	out, err := newUseCase(f, obs).Setup(context.Background(), newInput())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	for _, c := range f.calls {
		if strings.HasPrefix(c, "create-") {
			t.Errorf("unexpected create call %s", c)
		}
	}
	if !slices.Contains(f.calls, "apply-env:gpu-inference-env") {
		t.Errorf("environment not applied: %v", f.calls)
	}
	wantLines := []string{
		"Found existing workspace: gpu-ml-workspace",
		"Compute gpu-cluster already exists.",
		"Notebook instance jupyter-notebook already exists.",
		"Created/updated environment: gpu-inference-env",
		"",
		"Setup complete! You can now access your Azure ML Studio at:",
		studioURL,
	}
	if !slices.Equal(obs.got, wantLines) {
		t.Errorf("progress = %q, want %q", obs.got, wantLines)
	}
	if out.Steps[0].Action != model.StepActionFound {
		t.Errorf("workspace step action = %q", out.Steps[0].Action)
	}
}

func TestSetup_MissingConfigMakesNoCalls(t *testing.T) {
	f := newFakeProvider()
	in := newInput()
	in.Target.SubscriptionID = ""

	out, err := newUseCase(f, nil).Setup(context.Background(), in)
	if out != nil {
		t.Errorf("out = %+v, want nil", out)
	}
	if !errors.Is(err, model.ErrMissingConfig) || !strings.Contains(err.Error(), "AZURE_SUBSCRIPTION_ID") {
		t.Errorf("err = %v", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("calls = %v, want none", f.calls)
	}
}

func TestSetup_LookupErrorNeverCreates(t *testing.T) {
	f := newFakeProvider()
	f.lookupErr["gpu-cluster"] = errors.New("403 Forbidden (AuthorizationFailed)")
	f.existing["gpu-ml-workspace"] = true
	uc := newUseCase(f, nil)

	out, err := uc.Setup(context.Background(), newInput())
	if err == nil || !strings.Contains(err.Error(), "AuthorizationFailed") {
		t.Fatalf("err = %v", err)
	}
	wantCalls := []string{"get-ws:gpu-ml-workspace", "get-compute:gpu-cluster"}
	if !slices.Equal(f.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", f.calls, wantCalls)
	}
	if out.Status != model.RunStatusFailed {
		t.Errorf("status = %q", out.Status)
	}

	run, err := uc.Repos.Run.GetRun(context.Background(), out.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != model.RunStatusFailed || !strings.Contains(run.Error, "AuthorizationFailed") {
		t.Errorf("run = %+v", run)
	}
}

func TestSetup_TransientLookupRetried(t *testing.T) {
	f := &flakyProvider{fakeProvider: newFakeProvider(), failures: 1}
	uc := newUseCase(f.fakeProvider, nil)
	uc.Ports.Workspace = f

	out, err := uc.Setup(context.Background(), newInput())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if f.lookups != 2 {
		t.Errorf("lookups = %d, want 2", f.lookups)
	}
	if out.Steps[0].Action != model.StepActionCreated {
		t.Errorf("workspace step action = %q", out.Steps[0].Action)
	}
}

type flakyProvider struct {
	*fakeProvider
	failures int
	lookups  int
}

func (f *flakyProvider) WorkspaceGet(ctx context.Context, t *model.Target, name string) model.Lookup[*model.Workspace] {
	f.lookups++
	if f.lookups <= f.failures {
		return model.LookupFailed[*model.Workspace](model.Transient(errors.New("503 Service Unavailable")))
	}
	return f.fakeProvider.WorkspaceGet(ctx, t, name)
}

func TestSetup_CreateFailureStops(t *testing.T) {
	f := newFakeProvider()
	f.createErr["gpu-ml-workspace"] = errors.New("quota exceeded")

	out, err := newUseCase(f, nil).Setup(context.Background(), newInput())
	if err == nil || !strings.Contains(err.Error(), `failed to create workspace "gpu-ml-workspace"`) {
		t.Fatalf("err = %v", err)
	}
	wantCalls := []string{"get-ws:gpu-ml-workspace", "create-ws:gpu-ml-workspace"}
	if !slices.Equal(f.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", f.calls, wantCalls)
	}
	if len(out.Steps) != 1 || out.Steps[0].Action != model.StepActionFailed {
		t.Errorf("steps = %+v", out.Steps)
	}
}

func TestSetup_EnvironmentFailureIsPartial(t *testing.T) {
	f := newFakeProvider()
	f.envErr = errors.New("image not found")
	obs := &lines{}

	out, err := newUseCase(f, obs).Setup(context.Background(), newInput())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if out.Status != model.RunStatusPartial || out.EnvironmentError != "image not found" {
		t.Errorf("status = %q envErr = %q", out.Status, out.EnvironmentError)
	}
	if !slices.Contains(obs.got, "Error creating environment: image not found") {
		t.Errorf("progress = %q", obs.got)
	}
	if last := obs.got[len(obs.got)-1]; last != studioURL {
		t.Errorf("last line = %q, want studio URL", last)
	}
	if out.Steps[3].Action != model.StepActionFailed {
		t.Errorf("environment step action = %q", out.Steps[3].Action)
	}
}

func TestSetup_CondaFileReadForEnvironment(t *testing.T) {
	dir := t.TempDir()
	conda := "name: gpu-inference\ndependencies:\n  - python=3.10\n"
	path := filepath.Join(dir, "environment.yml")
	if err := os.WriteFile(path, []byte(conda), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newFakeProvider()
	in := newInput()
	in.Environment.CondaFile = path

	if _, err := newUseCase(f, nil).Setup(context.Background(), in); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if f.applied == nil || f.applied.CondaSpec != conda {
		t.Errorf("applied environment = %+v", f.applied)
	}
	if in.Environment.CondaSpec != "" {
		t.Error("input descriptor must not be modified")
	}
}

func TestSetup_MissingCondaFileIsPartial(t *testing.T) {
	f := newFakeProvider()
	in := newInput()
	in.Environment.CondaFile = filepath.Join(t.TempDir(), "environment.yml")
	obs := &lines{}

	out, err := newUseCase(f, obs).Setup(context.Background(), in)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	wantCalls := []string{
		"get-ws:gpu-ml-workspace", "create-ws:gpu-ml-workspace",
		"get-compute:gpu-cluster", "create-cluster:gpu-cluster",
		"get-compute:jupyter-notebook", "create-notebook:jupyter-notebook",
	}
	if !slices.Equal(f.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", f.calls, wantCalls)
	}
	if out.Status != model.RunStatusPartial || !strings.Contains(out.EnvironmentError, "failed to read conda file") {
		t.Errorf("status = %q envErr = %q", out.Status, out.EnvironmentError)
	}
	found := false
	for _, l := range obs.got {
		if strings.HasPrefix(l, "Error creating environment: failed to read conda file") {
			found = true
		}
	}
	if !found {
		t.Errorf("progress = %q", obs.got)
	}
	if last := obs.got[len(obs.got)-1]; last != studioURL {
		t.Errorf("last line = %q, want studio URL", last)
	}
}

func TestSetup_CreateResourceGroup(t *testing.T) {
	f := newFakeProvider()
	in := newInput()
	in.CreateResourceGroup = true
	obs := &lines{}

	out, err := newUseCase(f, obs).Setup(context.Background(), in)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !slices.Equal(f.calls[:2], []string{"get-rg:rg", "create-rg:rg"}) {
		t.Errorf("calls = %v", f.calls)
	}
	if obs.got[1] != "Created resource group: rg" {
		t.Errorf("progress = %q", obs.got)
	}
	if len(out.Steps) != 5 || out.Steps[0].Kind != model.StepKindResourceGroup {
		t.Errorf("steps = %+v", out.Steps)
	}
}

func TestSetup_InvalidInput(t *testing.T) {
	f := newFakeProvider()
	in := newInput()
	in.Environment = nil

	if _, err := newUseCase(f, nil).Setup(context.Background(), in); !errors.Is(err, model.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("calls = %v, want none", f.calls)
	}
	if _, err := newUseCase(f, nil).Setup(context.Background(), nil); !errors.Is(err, model.ErrInvalid) {
		t.Errorf("nil input err = %v, want ErrInvalid", err)
	}
}

func TestWriterObserver(t *testing.T) {
	var b strings.Builder
	WriterObserver{W: &b}.Progress("Compute gpu-cluster already exists.")
	if got := b.String(); got != "Compute gpu-cluster already exists.\n" {
		t.Errorf("output = %q", got)
	}
}
