package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/apiclient"
	"github.com/atharvakonge/portfolio-admin/internal/audit"
	"github.com/atharvakonge/portfolio-admin/internal/forms"
	"github.com/atharvakonge/portfolio-admin/internal/loader"
	"github.com/atharvakonge/portfolio-admin/internal/models"
	"github.com/atharvakonge/portfolio-admin/internal/table"
	"github.com/atharvakonge/portfolio-admin/internal/views"
)

// loadMasterData fetches a page of stocks and the refresh status together.
// The status fails soft: a missing status leaves the card unknown. When the
// request is gone or the pool stopped, nothing is read back since a worker
// may still be running the fetch.
func (h *Handler) loadMasterData(ctx context.Context, search string) ([]models.Stock, *models.RefreshStatus, error) {
	var (
		stocks []models.Stock
		status *models.RefreshStatus
	)

	err := h.pool.All(ctx,
		loader.Fetch{Name: "stocks", Run: func(ctx context.Context) error {
			res, err := h.api.Stocks(ctx, apiclient.Page{Skip: 0, Limit: apiclient.DefaultLimit, Search: search})
			if err != nil {
				return err
			}
			stocks = res.Items
			return nil
		}},
		loader.Fetch{Name: "refresh_status", Run: func(ctx context.Context) error {
			res, err := h.api.RefreshStatus(ctx)
			if err != nil {
				log.WithError(err).Debug("refresh status unavailable")
				return nil
			}
			status = res
			return nil
		}},
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, ctxErr
	}
	if errors.Is(err, loader.ErrStopped) {
		return nil, nil, err
	}
	// every remaining error came back from a finished fetch
	return stocks, status, err
}

// MasterData handles GET /master-data
func (h *Handler) MasterData(c *gin.Context) {
	var params views.ListParams
	_ = c.ShouldBindQuery(&params)

	stocks, status, err := h.loadMasterData(c.Request.Context(), params.Query)
	if err != nil {
		log.WithError(err).Warn(apiclient.Format(err))
	}

	var flash forms.Status
	switch c.Query("result") {
	case "saved":
		flash = forms.Succeeded(forms.MsgStockUpdated)
	case "failed":
		flash = forms.Failed(c.DefaultQuery("message", forms.MsgStockFailed))
	}

	page(c, http.StatusOK, "master_data.html", "master-data", gin.H{
		"View":   views.NewStocks(stocks, params, status),
		"Status": flash,
	})
}

// UpdateStock handles POST /master-data/:symbol from the edit form and
// redirects back to the table with the search and sort kept.
func (h *Handler) UpdateStock(c *gin.Context) {
	symbol := c.Param("symbol")
	var form forms.StockEditForm
	_ = c.ShouldBind(&form)
	var params views.ListParams
	_ = c.ShouldBind(&params)

	back := func(result, message string) {
		v := url.Values{"result": {result}}
		if message != "" {
			v.Set("message", message)
		}
		if params.Query != "" {
			v.Set("q", params.Query)
		}
		if params.Sort != "" {
			v.Set("sort", params.Sort)
			v.Set("dir", params.Dir)
		}
		c.Redirect(http.StatusFound, "/master-data?"+v.Encode())
	}

	update, err := form.Update()
	if err != nil {
		back("failed", err.Error())
		return
	}

	ctx := c.Request.Context()
	var saveErr error
	ran := h.withGate(ctx, "stock:"+symbol, func() {
		saveErr = h.api.UpdateStock(ctx, symbol, update)
		h.record(ctx, audit.ActionUpdateStock, symbol, saveErr)
	})
	switch {
	case !ran:
		back("failed", forms.MsgBusy)
	case saveErr != nil:
		log.WithError(saveErr).WithField("symbol", symbol).Warn(apiclient.Format(saveErr))
		back("failed", "")
	default:
		back("saved", "")
	}
}

// ListUsers handles GET /api/users: the loaded users with the same search
// and sort as the users page
func (h *Handler) ListUsers(c *gin.Context) {
	var params views.ListParams
	_ = c.ShouldBindQuery(&params)

	users, err := h.api.Users(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		jsonError(c, err)
		return
	}

	v := views.NewUsers(users, params)
	c.JSON(http.StatusOK, gin.H{"items": v.Rows, "loaded": v.Loaded})
}

// ListStocks handles GET /api/stocks
func (h *Handler) ListStocks(c *gin.Context) {
	p := pageFromQuery(c)
	p.Search = c.Query("search")

	res, err := h.api.Stocks(c.Request.Context(), p)
	if err != nil {
		jsonError(c, err)
		return
	}

	items := table.Sorted(res.Items, table.StockColumns, table.ParseSort(c.Query("sort"), c.Query("dir")))
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetRefreshStatus handles GET /api/stocks/refresh-status
func (h *Handler) GetRefreshStatus(c *gin.Context) {
	res, err := h.api.RefreshStatus(c.Request.Context())
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func pageFromQuery(c *gin.Context) apiclient.Page {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(apiclient.DefaultLimit)))
	return apiclient.Page{Skip: skip, Limit: limit}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
