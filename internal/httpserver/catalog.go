package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/catalog"
	"storefront/internal/domain"
)

// catalogQuery reads the search screen's query parameters. Without any
// filter parameter the filter panel is treated as unset.
func catalogQuery(c *gin.Context) (catalog.Query, error) {
	q := catalog.Query{
		Text:          c.Query("q"),
		QuickCategory: c.Query("category"),
	}
	filterCategory, size := c.Query("filterCategory"), c.Query("size")
	dietary, spice, price := c.Query("dietary"), c.Query("spice"), c.Query("price")
	if filterCategory == "" && size == "" && dietary == "" && spice == "" && price == "" {
		return q, nil
	}
	band, ok := catalog.ParsePriceRange(price)
	if !ok {
		return q, domain.NewValidationError("Unknown price range: " + price)
	}
	q.Filters = &catalog.Filters{
		Category:   filterCategory,
		Size:       size,
		Dietary:    dietary,
		SpiceLevel: spice,
		PriceRange: band,
	}
	return q, nil
}

func (h *handlers) listCatalog(c *gin.Context) {
	q, err := catalogQuery(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	items := h.deps.Catalog.Search(q)
	if items == nil {
		items = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *handlers) catalogFacets(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Catalog.Facets())
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Catalog.Get(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
