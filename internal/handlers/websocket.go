package handlers

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/apiclient"
	"github.com/atharvakonge/portfolio-admin/internal/audit"
	"github.com/atharvakonge/portfolio-admin/internal/forms"
	"github.com/atharvakonge/portfolio-admin/internal/loader"
	"github.com/atharvakonge/portfolio-admin/internal/masterdata"
	"github.com/atharvakonge/portfolio-admin/internal/models"
	"github.com/atharvakonge/portfolio-admin/internal/table"
)

// Message types of the master data socket
const (
	msgSearch = "search"
	msgSort   = "sort"
	msgEdit   = "edit"
	msgStocks = "stocks"
	msgStatus = "status"
	msgError  = "error"
)

// ClientMessage is sent by the master data page
type ClientMessage struct {
	Type   string             `json:"type"`
	Query  string             `json:"query,omitempty"`
	Sort   string             `json:"sort,omitempty"`
	Dir    string             `json:"dir,omitempty"`
	Symbol string             `json:"symbol,omitempty"`
	Update models.StockUpdate `json:"update"`
}

// ServerMessage is pushed to the master data page. A stocks message
// without items means the search matched nothing.
type ServerMessage struct {
	Type    string                `json:"type"`
	Seq     uint64                `json:"seq,omitempty"`
	Items   []models.Stock        `json:"items,omitempty"`
	Status  *models.RefreshStatus `json:"status,omitempty"`
	Symbol  string                `json:"symbol,omitempty"`
	Message string                `json:"message,omitempty"`
}

// WebSocket upgrader. The socket rides on the auth cookie, so only pages
// served from this host may open it.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	},
}

// liveSession is one open master data socket
type liveSession struct {
	h      *Handler
	conn   *websocket.Conn
	state  *masterdata.State
	writeM sync.Mutex

	sortM sync.Mutex
	sort  *table.Sort
}

// MasterDataSocket handles GET /api/ws/master-data: debounced live search,
// periodic refresh status and optimistic edits over one socket.
func (h *Handler) MasterDataSocket(c *gin.Context) {
	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade error")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	s := &liveSession{h: h, conn: conn, state: masterdata.NewState()}
	debounce := masterdata.NewDebouncer(h.opts.SearchDebounce)
	defer debounce.Stop()

	log.WithField("admin", actor(ctx)).Info("master data socket connected")

	go s.search(ctx, "")
	go s.statusLoop(ctx)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("websocket read error")
			}
			return
		}

		switch msg.Type {
		case msgSearch:
			query := msg.Query
			s.setSort(table.ParseSort(msg.Sort, msg.Dir))
			debounce.Trigger(func() { s.search(ctx, query) })
		case msgSort:
			s.setSort(table.ParseSort(msg.Sort, msg.Dir))
			s.pushRows()
		case msgEdit:
			s.edit(ctx, msg.Symbol, msg.Update)
		default:
			s.send(ServerMessage{Type: msgError, Message: "unknown message type"})
		}
	}
}

// search fetches one page of stocks for query. Responses that arrive after
// a newer search was issued are dropped.
func (s *liveSession) search(ctx context.Context, query string) {
	seq := s.state.Next()

	var page *models.StockPage
	err := s.h.pool.Submit(ctx, loader.Fetch{Name: "stocks_search", Run: func(ctx context.Context) (err error) {
		page, err = s.h.api.Stocks(ctx, apiclient.Page{Skip: 0, Limit: apiclient.DefaultLimit, Search: query})
		return err
	}})
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		log.WithError(err).WithField("query", query).Warn(apiclient.Format(err))
		s.send(ServerMessage{Type: msgError, Seq: seq, Message: apiclient.Message(err, "Failed to fetch stocks")})
		return
	}

	if s.state.Apply(seq, page.Items) {
		s.pushRows()
	}
}

// edit saves a stock and patches the displayed row instead of re-fetching
func (s *liveSession) edit(ctx context.Context, symbol string, update models.StockUpdate) {
	if symbol == "" {
		s.send(ServerMessage{Type: msgError, Message: forms.MsgStockFailed})
		return
	}
	if err := forms.ValidateStockUpdate(update); err != nil {
		s.send(ServerMessage{Type: msgError, Symbol: symbol, Message: err.Error()})
		return
	}

	var err error
	ran := s.h.withGate(ctx, "stock:"+symbol, func() {
		err = s.h.api.UpdateStock(ctx, symbol, update)
		s.h.record(ctx, audit.ActionUpdateStock, symbol, err)
	})
	switch {
	case !ran:
		s.send(ServerMessage{Type: msgError, Symbol: symbol, Message: forms.MsgBusy})
	case err != nil:
		log.WithError(err).WithField("symbol", symbol).Warn(apiclient.Format(err))
		s.send(ServerMessage{Type: msgError, Symbol: symbol, Message: forms.MsgStockFailed})
	default:
		s.state.Patch(symbol, update)
		s.pushRows()
	}
}

// statusLoop pushes the refresh status now and on every tick. A failed
// fetch sends nothing and the page keeps showing the last known status.
func (s *liveSession) statusLoop(ctx context.Context) {
	ticker := time.NewTicker(s.h.opts.StatusInterval)
	defer ticker.Stop()

	for {
		if status, err := s.h.api.RefreshStatus(ctx); err == nil {
			if !s.send(ServerMessage{Type: msgStatus, Status: status}) {
				return
			}
		} else if ctx.Err() == nil {
			log.WithError(err).Debug("refresh status unavailable")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *liveSession) setSort(sort *table.Sort) {
	s.sortM.Lock()
	s.sort = sort
	s.sortM.Unlock()
}

func (s *liveSession) pushRows() {
	rows, seq := s.state.Rows()
	s.sortM.Lock()
	sort := s.sort
	s.sortM.Unlock()

	s.send(ServerMessage{Type: msgStocks, Seq: seq, Items: table.Sorted(rows, table.StockColumns, sort)})
}

// send writes one message; gorilla connections allow a single writer
func (s *liveSession) send(msg ServerMessage) bool {
	s.writeM.Lock()
	defer s.writeM.Unlock()

	if err := s.conn.WriteJSON(msg); err != nil {
		log.WithError(err).Debug("websocket write error")
		return false
	}
	return true
}
