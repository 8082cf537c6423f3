package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/gift-registry/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

func TestExperiences_BeforeLoadIsUnavailable(t *testing.T) {
	svc := NewService(memory.NewRepository(seedItems()))

	_, err := svc.Experiences(context.Background())
	require.ErrorIs(t, err, ports.ErrCatalogUnavailable)
}

func TestRefresh_LoadsActiveItemsInDisplayOrder(t *testing.T) {
	items := append(seedItems(),
		domain.Item{ID: "hidden", Title: "Hidden", TotalPackages: 1, DisplayOrder: 0, Active: false},
		domain.Item{ID: "andes", Title: "Andes", TotalPackages: 4, DisplayOrder: 0, Active: true, ImageURL: "andes.jpg"},
	)
	svc := NewService(memory.NewRepository(items), WithImageBaseURL("https://cdn.example.com/images"))

	require.NoError(t, svc.Refresh(context.Background()))

	list, err := svc.Experiences(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, item := range list {
		ids = append(ids, item.ID)
	}
	require.Equal(t, []string{"andes", "patagonia", domain.FreeContributionID}, ids)
	require.Equal(t, "https://cdn.example.com/images/andes.jpg", list[0].ImageURL)

	status := svc.Status(context.Background())
	require.True(t, status.Loaded)
	require.Equal(t, 3, status.ItemCount)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	repo := memory.NewRepository(seedItems())
	svc := NewService(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	repo.SetFetchError(errors.New("connection refused"))
	require.Error(t, svc.Refresh(context.Background()))

	list, err := svc.Experiences(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "connection refused", svc.Status(context.Background()).LastError)
}

func TestRefresh_InitialFailureReportsCause(t *testing.T) {
	cause := errors.New("connection refused")
	svc := NewService(memory.NewRepository(nil, memory.WithFetchError(cause)))

	require.Error(t, svc.Refresh(context.Background()))
	_, err := svc.Experiences(context.Background())
	require.ErrorIs(t, err, ports.ErrCatalogUnavailable)
	require.ErrorIs(t, err, cause)
}

func TestExperience_Lookup(t *testing.T) {
	svc := NewService(memory.NewRepository(seedItems()))
	require.NoError(t, svc.Refresh(context.Background()))

	item, err := svc.Experience(context.Background(), "patagonia")
	require.NoError(t, err)
	require.Equal(t, 5, item.Remaining())

	_, err = svc.Experience(context.Background(), "atlantis")
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.Experience(context.Background(), " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}
