package registryserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	catalogports "github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

// HealthAPI answers liveness probes.
type HealthAPI struct {
	catalog           catalogports.Service
	inventoryStrategy string
}

// Health is the liveness response body.
type Health struct {
	Status            string        `json:"status"`
	Catalog           CatalogHealth `json:"catalog"`
	InventoryStrategy string        `json:"inventoryStrategy"`
}

// CatalogHealth reports the catalog snapshot state.
type CatalogHealth struct {
	Loaded    bool       `json:"loaded"`
	Items     int        `json:"items"`
	LoadedAt  *time.Time `json:"loadedAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

func NewHealthAPI(catalog catalogports.Service, inventoryStrategy string) HealthAPI {
	return HealthAPI{catalog: catalog, inventoryStrategy: inventoryStrategy}
}

// Get /healthz
// Reports liveness; degraded while the catalog has never loaded
func (api *HealthAPI) Healthz(c *gin.Context) {
	health := Health{Status: "ok", InventoryStrategy: api.inventoryStrategy}
	if api.catalog != nil {
		status := api.catalog.Status(c.Request.Context())
		health.Catalog = CatalogHealth{Loaded: status.Loaded, Items: status.ItemCount, LastError: status.LastError}
		if !status.LoadedAt.IsZero() {
			loadedAt := status.LoadedAt
			health.Catalog.LoadedAt = &loadedAt
		}
		if !status.Loaded {
			health.Status = "degraded"
		}
	}
	c.JSON(http.StatusOK, health)
}
