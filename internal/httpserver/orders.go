package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	"storefront/internal/orderhistory"
)

func (h *handlers) listOrders(c *gin.Context) {
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			writeError(c, h.logger, domain.NewValidationError("Unknown time zone: "+tz))
			return
		}
		loc = l
	}
	orders := currentSession(c).Snapshot().Orders
	sorted := orderhistory.SortNewestFirst(orders)
	groups := orderhistory.GroupByDay(orders, loc)
	if groups == nil {
		groups = []orderhistory.DayGroup{}
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":     sorted,
		"groups":     groups,
		"count":      len(sorted),
		"totalSpent": orderhistory.TotalSpent(orders),
	})
}

// reorder puts a past order's line back in the cart.
func (h *handlers) reorder(c *gin.Context) {
	sess := currentSession(c)
	o, ok := orderhistory.Find(sess.Snapshot().Orders, c.Param("orderId"))
	if !ok {
		writeError(c, h.logger, domain.ErrNotFound)
		return
	}
	line := o.CartLine
	line.ID = ""
	if err := sess.AddToCart(c.Request.Context(), line); err != nil {
		writeError(c, h.logger, err)
		return
	}
	snap := sess.Snapshot()
	body := cartBody(snap.Cart, snap.CartVersion)
	body["alert"] = alert{Title: "Added to Cart!", Message: line.ProductName + " has been added to your cart."}
	c.JSON(http.StatusCreated, body)
}

func (h *handlers) refresh(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.RefreshData(c.Request.Context()); err != nil {
		writeError(c, h.logger, err)
		return
	}
	snap := sess.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"cartItems": len(snap.Cart),
		"orders":    len(snap.Orders),
		"version":   snap.CartVersion,
		"alert":     alert{Title: "Refreshed", Message: "Your orders have been updated."},
	})
}
