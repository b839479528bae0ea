package observability

import "context"

// StoreHooks reports store activity into Metrics. It satisfies store.Hooks.
type StoreHooks struct {
	metrics *Metrics
}

// NewStoreHooks returns hooks recording into m.
func NewStoreHooks(m *Metrics) *StoreHooks {
	return &StoreHooks{metrics: m}
}

func (h *StoreHooks) Dispatched(actionType string) {
	h.metrics.RecordDispatch(context.Background(), actionType)
}

func (h *StoreHooks) Notified(subscribers int) {
	h.metrics.RecordNotify(context.Background(), subscribers)
}

func (h *StoreHooks) Signaled() {
	h.metrics.RecordSignal(context.Background())
}
