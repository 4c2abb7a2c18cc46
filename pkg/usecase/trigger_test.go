package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/usecase"
)

// MockPublishUseCase records build requests handed to the pipeline
type MockPublishUseCase struct {
	mu       sync.Mutex
	requests []*model.BuildRequest
	done     chan struct{}
}

func NewMockPublishUseCase() *MockPublishUseCase {
	return &MockPublishUseCase{done: make(chan struct{}, 1)}
}

func (m *MockPublishUseCase) Run(ctx context.Context, req *model.BuildRequest) (*model.BuildResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	m.done <- struct{}{}
	return &model.BuildResult{Deployed: req.Decision.ShouldDeploy()}, nil
}

func (m *MockPublishUseCase) Requests() []*model.BuildRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.BuildRequest(nil), m.requests...)
}

func (m *MockPublishUseCase) Wait(t *testing.T) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(5 * time.Second):
		t.Fatal("build was not dispatched")
	}
}

func TestTriggerUseCase_HandleEvent_DispatchesBuild(t *testing.T) {
	mockUC := NewMockPublishUseCase()
	uc := usecase.NewTrigger(testRules, mockUC)

	event := &model.TriggerEvent{
		ID:         "delivery-1",
		Kind:       model.EventKindPush,
		Branch:     "code",
		Repository: "octocat/blog",
		CommitSHA:  "abc123",
	}

	decision, err := uc.HandleEvent(context.Background(), event)
	gt.NoError(t, err)
	gt.Value(t, decision.Mode).Equal(model.ModeBuildAndDeploy)

	mockUC.Wait(t)
	requests := mockUC.Requests()
	gt.Number(t, len(requests)).Equal(1)
	gt.Value(t, requests[0].Event).Equal(event)
	gt.Value(t, requests[0].Decision.DeployBranch).Equal("master")
	gt.Value(t, requests[0].RunID != "").Equal(true)
}

func TestTriggerUseCase_HandleEvent_BuildOnlyStillBuilds(t *testing.T) {
	mockUC := NewMockPublishUseCase()
	uc := usecase.NewTrigger(testRules, mockUC)

	event := &model.TriggerEvent{
		ID:         "delivery-2",
		Kind:       model.EventKindReviewRequest,
		Branch:     "code",
		Repository: "octocat/blog",
		CommitSHA:  "def456",
	}

	decision, err := uc.HandleEvent(context.Background(), event)
	gt.NoError(t, err)
	gt.Value(t, decision.Mode).Equal(model.ModeBuildOnly)
	gt.Value(t, decision.DeployBranch).Equal("")

	mockUC.Wait(t)
	requests := mockUC.Requests()
	gt.Number(t, len(requests)).Equal(1)
	gt.Value(t, requests[0].Decision.Mode).Equal(model.ModeBuildOnly)
}

func TestTriggerUseCase_HandleEvent_InvalidEventSkipsDispatch(t *testing.T) {
	mockUC := NewMockPublishUseCase()
	uc := usecase.NewTrigger(testRules, mockUC)

	event := &model.TriggerEvent{
		ID:   "delivery-3",
		Kind: model.EventKindPush,
		// Branch intentionally empty
	}

	decision, err := uc.HandleEvent(context.Background(), event)
	gt.Error(t, err)
	gt.Value(t, decision).Nil()

	// Give a stray dispatch a chance to surface
	time.Sleep(50 * time.Millisecond)
	gt.Number(t, len(mockUC.Requests())).Equal(0)
}

func TestTriggerUseCase_HandleEvent_NilPublisher(t *testing.T) {
	uc := usecase.NewTrigger(testRules, nil)

	event := &model.TriggerEvent{
		ID:     "delivery-4",
		Kind:   model.EventKindPush,
		Branch: "code",
	}

	decision, err := uc.HandleEvent(context.Background(), event)
	gt.NoError(t, err)
	gt.Value(t, decision.Mode).Equal(model.ModeBuildAndDeploy)
}
