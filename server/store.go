package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/storekit/cache"
	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/fetch"
	"github.com/kbukum/storekit/fetchstore"
	"github.com/kbukum/storekit/logger"
	"github.com/kbukum/storekit/server/middleware"
	"github.com/kbukum/storekit/sse"
	"github.com/kbukum/storekit/store"
)

// StoreSource yields the running store, or nil when it is not started.
// *fetchstore.Component satisfies it.
type StoreSource interface {
	Store() *fetchstore.Store
}

// resetter is implemented by sources that own the store's lifecycle, such
// as *fetchstore.Component.
type resetter interface {
	Reset(ctx context.Context) error
}

// KeyView is the JSON form of one key's projection.
type KeyView struct {
	Key     string            `json:"key"`
	Data    any               `json:"data,omitempty"`
	Error   *errors.ErrorBody `json:"error,omitempty"`
	Loading bool              `json:"loading"`
}

// NewKeyView converts a projection for the wire.
func NewKeyView(key string, p store.Projection) KeyView {
	v := KeyView{Key: key, Data: p.Data, Loading: p.Loading}
	if p.Error != nil {
		body := errors.Wrap(p.Error).Body()
		if body.Code == errors.ErrCodeInternal {
			body.Message = p.Error.Error()
		}
		v.Error = &body
	}
	return v
}

// FetchBody is the POST /fetch payload: a request plus fetch options.
type FetchBody struct {
	fetch.Request
	Key   string `json:"key,omitempty"`
	Force bool   `json:"force,omitempty"`
}

type storeRoutes struct {
	source StoreSource
	hub    *sse.Hub
	events sse.Broadcaster
	config Config
	log    *logger.Logger
}

// RegisterStoreRoutes adds the key, fetch and watch routes behind guards,
// such as middleware.GinWrap(middleware.Auth(verifier)). Watch streams
// register with hub, which also carries the deleted and reset events.
func (s *Server) RegisterStoreRoutes(source StoreSource, hub *sse.Hub, guards ...gin.HandlerFunc) {
	r := &storeRoutes{source: source, hub: hub, events: hub, config: s.config, log: s.log}

	g := s.engine.Group("/", guards...)
	g.GET("/keys", r.listKeys)
	g.DELETE("/keys", r.reset)
	g.GET("/keys/:key", r.getKey)
	g.DELETE("/keys/:key", r.deleteKey)
	g.GET("/keys/:key/watch", r.watchKey)
	g.POST("/fetch",
		middleware.GinWrap(middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: s.config.FetchRateLimit})),
		r.fetch,
	)
}

func (r *storeRoutes) store(c *gin.Context) (*fetchstore.Store, bool) {
	st := r.source.Store()
	if st == nil || st.Closed() {
		RespondWithError(c, errors.Closed("store"))
		return nil, false
	}
	return st, true
}

func (r *storeRoutes) listKeys(c *gin.Context) {
	st, ok := r.store(c)
	if !ok {
		return
	}
	RespondOK(c, gin.H{"keys": st.State().Keys()})
}

func (r *storeRoutes) getKey(c *gin.Context) {
	st, ok := r.store(c)
	if !ok {
		return
	}
	key := c.Param("key")
	RespondOK(c, NewKeyView(key, st.Config().UseSelector(key)))
}

func (r *storeRoutes) deleteKey(c *gin.Context) {
	st, ok := r.store(c)
	if !ok {
		return
	}
	key := c.Param("key")
	st.Dispatch(cache.DeleteDataAction(key))
	r.broadcast(key, sse.EventTypeDeleted)
	RespondNoContent(c)
}

// reset empties the whole cache and tells every watch stream.
func (r *storeRoutes) reset(c *gin.Context) {
	st, ok := r.store(c)
	if !ok {
		return
	}
	if rs, ok := r.source.(resetter); ok {
		if err := rs.Reset(c.Request.Context()); err != nil {
			RespondWithError(c, err)
			return
		}
	} else {
		st.Replace(cache.State{})
	}
	r.broadcast("", sse.EventTypeReset)
	RespondNoContent(c)
}

// broadcast sends a key event to the streams watching key, or to every
// stream when key is empty.
func (r *storeRoutes) broadcast(key, eventType string) {
	data, err := json.Marshal(gin.H{"key": key})
	if err != nil {
		r.log.Warn("key event not encodable", logger.Fields(logger.FieldKey, key, logger.FieldError, err.Error()))
		return
	}
	r.events.BroadcastToPattern(sse.WatchPattern(key), sse.Event{Type: eventType, Data: data})
}

func (r *storeRoutes) fetch(c *gin.Context) {
	st, ok := r.store(c)
	if !ok {
		return
	}
	var body FetchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}

	key := body.Key
	if key == "" {
		key = cache.ComputeKey(body.Request)
	}
	opts := []fetchstore.FetchOption{fetchstore.WithKey(key)}
	if body.Force {
		opts = append(opts, fetchstore.WithForce())
	}

	p, err := fetchstore.Fetch(c.Request.Context(), st.Config(), body.Request, opts...)
	if err != nil && p.Error == nil {
		RespondWithError(c, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		status = errors.Wrap(err).HTTPStatus
	}
	c.JSON(status, DataResponse{Data: NewKeyView(key, p)})
}

// watchKey streams the key's projection: once on connect, then on every
// change seen by a selection owned by this stream.
func (r *storeRoutes) watchKey(c *gin.Context) {
	st, ok := r.store(c)
	if !ok {
		return
	}
	key := c.Param("key")
	client := sse.NewClient(
		sse.WatchClientID(key),
		sse.WithKey(key),
		sse.WithBuffer(r.config.WatchBuffer),
	)

	var (
		mu  sync.Mutex
		sel *store.Selection[string, store.Projection]
	)
	push := func() {
		mu.Lock()
		defer mu.Unlock()
		if sel == nil {
			return
		}
		data, err := json.Marshal(NewKeyView(key, sel.Value()))
		if err != nil {
			r.log.Warn("watch event not encodable", logger.Fields(logger.FieldKey, key, logger.FieldError, err.Error()))
			return
		}
		client.Send(sse.Event{Type: sse.EventTypeChange, Data: data})
	}

	mu.Lock()
	sel = st.Select(key, push)
	mu.Unlock()
	defer sel.Close()
	push()

	sse.ServeSSE(r.hub, c.Writer, c.Request, client, sse.StreamOptions{KeepAlive: r.config.WatchKeepAlive})
}
