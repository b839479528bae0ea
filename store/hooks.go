package store

// Hooks observes a provider. Implementations must be cheap and must not
// dispatch.
type Hooks interface {
	// Dispatched is called after each state replacement.
	Dispatched(actionType string)
	// Notified is called after each notify pass with the number of
	// subscribers it covered.
	Notified(subscribers int)
	// Signaled is called each time a selection's projection changes.
	Signaled()
}

// NopHooks ignores everything.
type NopHooks struct{}

func (NopHooks) Dispatched(string) {}
func (NopHooks) Notified(int)      {}
func (NopHooks) Signaled()         {}

// JoinHooks fans every call out to each non-nil hook in order.
func JoinHooks(hooks ...Hooks) Hooks {
	joined := make(multiHooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			joined = append(joined, h)
		}
	}
	return joined
}

type multiHooks []Hooks

func (m multiHooks) Dispatched(actionType string) {
	for _, h := range m {
		h.Dispatched(actionType)
	}
}

func (m multiHooks) Notified(subscribers int) {
	for _, h := range m {
		h.Notified(subscribers)
	}
}

func (m multiHooks) Signaled() {
	for _, h := range m {
		h.Signaled()
	}
}
