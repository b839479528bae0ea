package cache

import (
	"maps"
	"sort"

	"github.com/kbukum/storekit/store"
)

// Action types understood by Simple.
const (
	ActionLoading    = "IS_LOADING"
	ActionSetData    = "SET_DATA"
	ActionDeleteData = "DELETE_DATA"
	ActionError      = "ERROR"
	ActionClearError = "CLEAR_ERROR"
)

// State is the cache shape managed by Simple. It is persistent: reductions
// copy the maps they change and share the rest, so an unchanged entry keeps
// its identity across dispatches.
type State struct {
	Data    map[string]any
	Errors  map[string]error
	Loading map[string]struct{}
}

// Len returns the number of keys holding data.
func (s State) Len() int {
	return len(s.Data)
}

// Keys returns every key that has data, an error or a load in flight,
// sorted.
func (s State) Keys() []string {
	seen := make(map[string]struct{}, len(s.Data)+len(s.Errors)+len(s.Loading))
	for k := range s.Data {
		seen[k] = struct{}{}
	}
	for k := range s.Errors {
		seen[k] = struct{}{}
	}
	for k := range s.Loading {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Simple is the default adapter: data, errors and loading flags keyed by
// string.
type Simple struct{}

var _ store.Adapter[State, string, store.Projection] = Simple{}

// New returns the Simple adapter.
func New() Simple {
	return Simple{}
}

// Reducer implements store.Adapter. Unknown action types, the init sentinel
// included, return state unchanged.
func (Simple) Reducer(state State, action store.Action) State {
	key := action.Key
	switch action.Type {
	case ActionLoading:
		if _, ok := state.Loading[key]; ok {
			return state
		}
		state.Loading = with(state.Loading, key, struct{}{})
	case ActionSetData:
		state.Data = with(state.Data, key, action.Value)
		state.Loading = without(state.Loading, key)
		state.Errors = without(state.Errors, key)
	case ActionDeleteData:
		state.Data = without(state.Data, key)
	case ActionError:
		state.Errors = with(state.Errors, key, action.Err)
		state.Loading = without(state.Loading, key)
	case ActionClearError:
		state.Errors = without(state.Errors, key)
	}
	return state
}

// GetCacheByKey implements store.Adapter.
func (Simple) GetCacheByKey(state State, key string) store.Projection {
	_, loading := state.Loading[key]
	return store.Projection{
		Data:    state.Data[key],
		Error:   state.Errors[key],
		Loading: loading,
	}
}

func with[V any](m map[string]V, key string, value V) map[string]V {
	next := make(map[string]V, len(m)+1)
	maps.Copy(next, m)
	next[key] = value
	return next
}

// without returns m itself when key is absent.
func without[V any](m map[string]V, key string) map[string]V {
	if _, ok := m[key]; !ok {
		return m
	}
	next := maps.Clone(m)
	delete(next, key)
	return next
}

// LoadingAction marks key as loading.
func LoadingAction(key string) store.Action {
	return store.Action{Type: ActionLoading, Key: key}
}

// SetDataAction stores value under key and clears its loading flag and
// error.
func SetDataAction(key string, value any) store.Action {
	return store.Action{Type: ActionSetData, Key: key, Value: value}
}

// DeleteDataAction removes the data stored under key.
func DeleteDataAction(key string) store.Action {
	return store.Action{Type: ActionDeleteData, Key: key}
}

// ErrorAction records err for key and clears its loading flag. Existing
// data is kept.
func ErrorAction(key string, err error) store.Action {
	return store.Action{Type: ActionError, Key: key, Err: err}
}

// ClearErrorAction removes the error recorded for key.
func ClearErrorAction(key string) store.Action {
	return store.Action{Type: ActionClearError, Key: key}
}
