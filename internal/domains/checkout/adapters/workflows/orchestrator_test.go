package workflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	cartmemory "github.com/Apurer/gift-registry/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/gift-registry/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/gift-registry/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	checkoutmemory "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/memory"
	checkoutapp "github.com/Apurer/gift-registry/internal/domains/checkout/application"
	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
)

// stuckRun is a workflow run that no worker ever picks up.
type stuckRun struct {
	client.WorkflowRun
}

func (stuckRun) Get(ctx context.Context, _ interface{}) error {
	<-ctx.Done()
	return ctx.Err()
}

// finishedRun returns a completed report.
type finishedRun struct {
	client.WorkflowRun
	report domain.FulfillmentReport
}

func (r finishedRun) Get(_ context.Context, valuePtr interface{}) error {
	*valuePtr.(*domain.FulfillmentReport) = r.report
	return nil
}

type fakeTemporal struct {
	client.Client
	startErr   error
	run        client.WorkflowRun
	options    client.StartWorkflowOptions
	attachedTo string
}

func (f *fakeTemporal) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, _ interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	f.options = options
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.run, nil
}

func (f *fakeTemporal) GetWorkflow(_ context.Context, workflowID string, _ string) client.WorkflowRun {
	f.attachedTo = workflowID
	return f.run
}

func sampleCommitted() domain.CommittedOrder {
	return domain.CommittedOrder{Order: domain.Order{ID: "o-1", Lines: []domain.Line{{ExperienceID: "x", PackagesCount: 1}}}}
}

type ctxCapturingFulfiller struct {
	ctxErr error
}

func (f *ctxCapturingFulfiller) Fulfill(ctx context.Context, committed domain.CommittedOrder) (domain.FulfillmentReport, error) {
	f.ctxErr = ctx.Err()
	return domain.FulfillmentReport{Inventory: []domain.LineOutcome{{ExperienceID: committed.Order.Lines[0].ExperienceID, Applied: true}}}, nil
}

func TestInlineFulfillment_DetachesFromCancelledRequest(t *testing.T) {
	inner := &ctxCapturingFulfiller{}
	orchestrator := NewInlineFulfillment(inner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := orchestrator.Fulfill(ctx, domain.CommittedOrder{Order: domain.Order{ID: "o-1", Lines: []domain.Line{{ExperienceID: "x", PackagesCount: 1}}}})
	require.NoError(t, err)
	require.NoError(t, inner.ctxErr)
	require.True(t, report.Inventory[0].Applied)
}

func TestTemporalFulfillment_NilReceiver(t *testing.T) {
	var orchestrator *TemporalFulfillment
	_, err := orchestrator.Fulfill(context.Background(), domain.CommittedOrder{})
	require.Error(t, err)
}

func TestBuildWorkflowID(t *testing.T) {
	require.Equal(t, "checkout-fulfillment-7f1c2a9e", BuildWorkflowID("7f1c2a9e"))
}

func TestTemporalFulfillment_ReturnsPendingWhenNoWorkerAnswers(t *testing.T) {
	temporal := &fakeTemporal{run: stuckRun{}}
	orchestrator := NewTemporalFulfillment(temporal, WithResultTimeout(50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	started := time.Now()
	report, err := orchestrator.Fulfill(ctx, sampleCommitted())

	require.NoError(t, err)
	require.Less(t, time.Since(started), 2*time.Second)
	require.True(t, report.Pending)
	require.Equal(t, "checkout-fulfillment-o-1", report.WorkflowID)
	require.Equal(t, defaultExecutionTimeout, temporal.options.WorkflowExecutionTimeout)
}

func TestTemporalFulfillment_StartFailureRunsFallback(t *testing.T) {
	fallback := &ctxCapturingFulfiller{}
	temporal := &fakeTemporal{startErr: serviceerror.NewUnavailable("frontend down")}
	orchestrator := NewTemporalFulfillment(temporal, WithFallback(fallback))

	report, err := orchestrator.Fulfill(context.Background(), sampleCommitted())

	require.NoError(t, err)
	require.NoError(t, fallback.ctxErr)
	require.True(t, report.Inventory[0].Applied)
	require.False(t, report.Pending)
}

func TestTemporalFulfillment_StartFailureWithoutFallback(t *testing.T) {
	orchestrator := NewTemporalFulfillment(&fakeTemporal{startErr: errors.New("connection refused")})

	_, err := orchestrator.Fulfill(context.Background(), sampleCommitted())
	require.ErrorContains(t, err, "connection refused")
}

func TestTemporalFulfillment_JoinsRunningWorkflow(t *testing.T) {
	want := domain.FulfillmentReport{Inventory: []domain.LineOutcome{{ExperienceID: "x", Applied: true}}}
	temporal := &fakeTemporal{
		startErr: serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1"),
		run:      finishedRun{report: want},
	}

	report, err := NewTemporalFulfillment(temporal).Fulfill(context.Background(), sampleCommitted())

	require.NoError(t, err)
	require.Equal(t, "checkout-fulfillment-o-1", temporal.attachedTo)
	require.Equal(t, want.Inventory, report.Inventory)
	require.Equal(t, "checkout-fulfillment-o-1", report.WorkflowID)
}

func TestCheckout_StuckWorkflowStillFinishesCheckout(t *testing.T) {
	const cartID = "c-stuck"
	catalogRepo := catalogmemory.NewRepository([]catalogdomain.Item{
		{ID: "x", Title: "X", UnitPrice: catalogdomain.Price(5000), TotalPackages: 4, Active: true},
	})
	catalog := catalogapp.NewService(catalogRepo)
	require.NoError(t, catalog.Refresh(context.Background()))
	cart := cartapp.NewService(cartmemory.NewStore(), catalog)
	orchestrator := NewTemporalFulfillment(&fakeTemporal{run: stuckRun{}}, WithResultTimeout(50*time.Millisecond))
	svc := checkoutapp.NewService(checkoutmemory.NewRepository(), catalog, cart, orchestrator)

	_, err := cart.Add(context.Background(), cartID, "x")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	confirmation, err := svc.Checkout(ctx, cartID, domain.Guest{Name: "Ana"})
	require.NoError(t, err)
	require.True(t, confirmation.Report.Pending)
	require.Empty(t, confirmation.FulfillmentError)

	remaining, err := cart.Get(context.Background(), cartID)
	require.NoError(t, err)
	require.True(t, remaining.IsEmpty())

	// The in-flight guard was released, so the same cart can check out again.
	_, err = cart.Add(context.Background(), cartID, "x")
	require.NoError(t, err)
	_, err = svc.Checkout(context.Background(), cartID, domain.Guest{Name: "Ana"})
	require.NoError(t, err)
}
