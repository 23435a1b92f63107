package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"storefront/internal/domain"
	"storefront/internal/workingcopy"
)

// addToCartRequest accepts either a catalog product id or a raw line.
// A missing quantity means one; an explicit quantity is validated as given.
type addToCartRequest struct {
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    string           `json:"imageUrl"`
	Quantity    *int             `json:"quantity"`
}

func (h *handlers) lineFromRequest(in addToCartRequest) (domain.CartLine, error) {
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if in.ProductID != "" {
		p, err := h.deps.Catalog.Get(in.ProductID)
		if err != nil {
			return domain.CartLine{}, err
		}
		return domain.CartLine{ProductName: p.Name, Price: p.Price, ImageURL: p.Image, Quantity: qty}, nil
	}
	if strings.TrimSpace(in.ProductName) == "" || in.Price == nil {
		return domain.CartLine{}, domain.NewValidationError("productId or productName and price required")
	}
	return domain.CartLine{ProductName: in.ProductName, Price: *in.Price, ImageURL: in.ImageURL, Quantity: qty}, nil
}

func (h *handlers) getCart(c *gin.Context) {
	snap := currentSession(c).Snapshot()
	c.JSON(http.StatusOK, cartBody(snap.Cart, snap.CartVersion))
}

func (h *handlers) addToCart(c *gin.Context) {
	var in addToCartRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, h.logger, domain.NewValidationError("invalid request body"))
		return
	}
	line, err := h.lineFromRequest(in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	sess := currentSession(c)
	if err := sess.AddToCart(c.Request.Context(), line); err != nil {
		writeError(c, h.logger, err)
		return
	}
	snap := sess.Snapshot()
	body := cartBody(snap.Cart, snap.CartVersion)
	body["alert"] = alert{Title: "Added to Cart!", Message: line.ProductName + " has been added to your cart."}
	c.JSON(http.StatusCreated, body)
}

func cartBody(lines []domain.CartLine, version uint64) gin.H {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return gin.H{"items": lines, "version": version}
}

type selectionView struct {
	Lines         []workingcopy.Line `json:"lines"`
	SelectedCount int                `json:"selectedCount"`
	Total         decimal.Decimal    `json:"total"`
	AllSelected   bool               `json:"allSelected"`
	Version       uint64             `json:"version"`
}

func viewOf(wc *workingcopy.WorkingCopy) selectionView {
	lines := wc.Lines()
	if lines == nil {
		lines = []workingcopy.Line{}
	}
	return selectionView{
		Lines:         lines,
		SelectedCount: len(wc.Selected()),
		Total:         wc.Total(),
		AllSelected:   wc.AllSelected(),
		Version:       wc.Version(),
	}
}

// withSelection runs fn on the device's working copy and replies with the
// resulting view.
func (h *handlers) withSelection(c *gin.Context, fn func(wc *workingcopy.WorkingCopy) error) {
	var view selectionView
	err := h.copies.with(deviceID(c), currentSession(c).Snapshot(), func(wc *workingcopy.WorkingCopy) error {
		if err := fn(wc); err != nil {
			return err
		}
		view = viewOf(wc)
		return nil
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) getSelection(c *gin.Context) {
	h.withSelection(c, func(*workingcopy.WorkingCopy) error { return nil })
}

func (h *handlers) selectAll(c *gin.Context) {
	h.withSelection(c, func(wc *workingcopy.WorkingCopy) error {
		wc.SelectAll()
		return nil
	})
}

type lineEdit func(wc *workingcopy.WorkingCopy, id string) bool

var (
	lineToggle    lineEdit = (*workingcopy.WorkingCopy).Toggle
	lineIncrement lineEdit = (*workingcopy.WorkingCopy).Increment
	lineDecrement lineEdit = (*workingcopy.WorkingCopy).Decrement
	lineRemove    lineEdit = (*workingcopy.WorkingCopy).Remove
)

func (h *handlers) editLine(edit lineEdit) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("lineId")
		h.withSelection(c, func(wc *workingcopy.WorkingCopy) error {
			if !edit(wc, id) {
				return domain.ErrNotFound
			}
			return nil
		})
	}
}

func (h *handlers) checkout(c *gin.Context) {
	sess := currentSession(c)
	var (
		placed int
		total  decimal.Decimal
	)
	err := h.copies.with(deviceID(c), sess.Snapshot(), func(wc *workingcopy.WorkingCopy) error {
		var err error
		placed, total, err = wc.PlaceOrders(c.Request.Context(), sess, h.now())
		return err
	})
	if err != nil {
		if placed > 0 {
			h.logger.Printf("api: checkout partial user_id=%s placed=%d error=%v", currentAccount(c).ID, placed, err)
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"placed": placed,
		"total":  total,
		"alert":  alert{Title: "Order Placed!", Message: "Your order has been placed successfully."},
	})
}
