package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kompox/amlops/adapters/store/inmem"
	"github.com/kompox/amlops/domain/model"
)

func TestRecorderAndGet(t *testing.T) {
	ctx := context.Background()
	repo := inmem.NewRunRepository()
	target := &model.Target{SubscriptionID: "sub", ResourceGroup: "rg", WorkspaceName: "gpu-ml-workspace"}

	rec := Start(ctx, repo, target)
	if rec.RunID() == "" {
		t.Fatal("expected run id")
	}
	started := time.Now().UTC()
	rec.Step(ctx, model.StepKindWorkspace, "gpu-ml-workspace", model.StepActionFound, "/ws", started, nil)
	s := rec.Step(ctx, model.StepKindEnvironment, "gpu-pytorch-env", model.StepActionApplied, "", started, errors.New("boom"))
	if s.Action != model.StepActionFailed || s.Error != "boom" {
		t.Errorf("failed step = %+v", s)
	}
	rec.Finish(ctx, model.RunStatusPartial, nil)

	uc := &UseCase{Repos: &Repos{Run: repo}}
	out, err := uc.Get(ctx, &GetInput{RunID: rec.RunID()})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Run.Status != model.RunStatusPartial || out.Run.FinishedAt.IsZero() {
		t.Errorf("run = %+v", out.Run)
	}
	if len(out.Steps) != 2 || out.Steps[0].Seq != 1 || out.Steps[1].Seq != 2 {
		t.Errorf("steps = %+v", out.Steps)
	}

	list, err := uc.List(ctx, &ListInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Runs) != 1 {
		t.Errorf("List len = %d, want 1", len(list.Runs))
	}
}

func TestRecorderWithoutRepository(t *testing.T) {
	ctx := context.Background()
	rec := Start(ctx, nil, &model.Target{SubscriptionID: "sub", ResourceGroup: "rg"})
	if rec.RunID() != "" {
		t.Errorf("RunID = %q, want empty", rec.RunID())
	}
	s := rec.Step(ctx, model.StepKindWorkspace, "ws", model.StepActionCreated, "", time.Now(), nil)
	if s.Seq != 1 || s.Action != model.StepActionCreated {
		t.Errorf("step = %+v", s)
	}
	rec.Finish(ctx, model.RunStatusSucceeded, nil)
}

func TestGet_Errors(t *testing.T) {
	uc := &UseCase{Repos: &Repos{Run: inmem.NewRunRepository()}}
	if _, err := uc.Get(context.Background(), &GetInput{}); err == nil {
		t.Error("expected error for empty run id")
	}
	if _, err := uc.Get(context.Background(), &GetInput{RunID: "nope"}); !errors.Is(err, model.ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}
