package registryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

// CatalogAPI exposes the experience catalog.
type CatalogAPI struct {
	service catalogports.Service
}

// CatalogListing is the catalog response body.
type CatalogListing struct {
	Experiences []catalogmapper.Experience `json:"experiences"`
	Count       int                        `json:"count"`
}

func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /v1/experiences
// Lists active experiences in display order
func (api *CatalogAPI) ListExperiences(c *gin.Context) {
	items, err := api.service.Experiences(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, CatalogListing{Experiences: catalogmapper.FromDomainItems(items), Count: len(items)})
}

// Get /v1/experiences/:experienceId
// Finds one experience by id
func (api *CatalogAPI) GetExperience(c *gin.Context) {
	id := c.Param("experienceId")
	item, err := api.service.Experience(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainItem(*item))
}
