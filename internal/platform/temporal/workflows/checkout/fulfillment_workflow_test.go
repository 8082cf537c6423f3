package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	catalogmemory "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/gift-registry/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	checkoutapp "github.com/Apurer/gift-registry/internal/domains/checkout/application"
	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	checkoutactivities "github.com/Apurer/gift-registry/internal/platform/temporal/activities/checkout"
)

type recordingHook struct {
	orders []string
}

func (h *recordingHook) Name() string { return "recording" }

func (h *recordingHook) Run(_ context.Context, committed domain.CommittedOrder) error {
	h.orders = append(h.orders, committed.Order.ID)
	return nil
}

func newEnvironment(t *testing.T, hook *recordingHook) (*testsuite.TestWorkflowEnvironment, *catalogmemory.Repository) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	repo := catalogmemory.NewRepository([]catalogdomain.Item{
		{ID: "patagonia", Title: "Patagonia", TotalPackages: 3, PackagesSold: 1, Active: true, UnitPrice: catalogdomain.Price(5000)},
		{ID: catalogdomain.FreeContributionID, Title: "Back Home", Active: true},
	})
	fulfiller := checkoutapp.NewFulfiller(catalogapp.NewAtomicIncrement(repo), checkoutapp.WithHooks(hook))
	acts := checkoutactivities.NewActivities(fulfiller)

	env.RegisterWorkflowWithOptions(FulfillmentWorkflow, RegisterOptions())
	env.RegisterActivityWithOptions(acts.IncrementInventory, activity.RegisterOptions{Name: checkoutactivities.IncrementInventoryActivityName})
	env.RegisterActivityWithOptions(acts.RunPostCommitHooks, activity.RegisterOptions{Name: checkoutactivities.RunPostCommitHooksActivityName})
	return env, repo
}

func committedOrder() domain.CommittedOrder {
	return domain.CommittedOrder{
		Order: domain.Order{
			ID:          "7f1c2a9e-0b7e-4c55-9a57-0c1f3b8f6a10",
			SessionCode: "250614-AB12C",
			Guest:       domain.Guest{Name: "Ana"},
			Lines: []domain.Line{
				{ExperienceID: "patagonia", PackagesCount: 1},
				{ExperienceID: catalogdomain.FreeContributionID, PackagesCount: 1},
			},
			TotalPackages: 2,
		},
		Items: []catalogdomain.Item{
			{ID: "patagonia", Title: "Patagonia", UnitPrice: catalogdomain.Price(5000)},
			{ID: catalogdomain.FreeContributionID, Title: "Back Home"},
		},
	}
}

func TestFulfillmentWorkflow_IncrementsAndRunsHooks(t *testing.T) {
	hook := &recordingHook{}
	env, repo := newEnvironment(t, hook)

	env.ExecuteWorkflow(FulfillmentWorkflowName, FulfillmentWorkflowInput{Committed: committedOrder()})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var report domain.FulfillmentReport
	require.NoError(t, env.GetWorkflowResult(&report))

	require.Len(t, report.Inventory, 2)
	require.Zero(t, report.InventoryFailures())
	require.Len(t, report.Hooks, 1)
	require.True(t, report.Hooks[0].Succeeded)
	require.Equal(t, []string{committedOrder().Order.ID}, hook.orders)

	sold, _, err := repo.SoldCount(context.Background(), "patagonia")
	require.NoError(t, err)
	require.Equal(t, 2, sold)
}

func TestFulfillmentWorkflow_InventoryActivityFailureStillRunsHooks(t *testing.T) {
	hook := &recordingHook{}
	env, _ := newEnvironment(t, hook)
	env.OnActivity(checkoutactivities.IncrementInventoryActivityName, mock.Anything, mock.Anything).
		Return(nil, errors.New("database unreachable"))

	env.ExecuteWorkflow(FulfillmentWorkflowName, FulfillmentWorkflowInput{Committed: committedOrder()})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var report domain.FulfillmentReport
	require.NoError(t, env.GetWorkflowResult(&report))
	require.Equal(t, 2, report.InventoryFailures())
	require.Len(t, hook.orders, 1)
}
