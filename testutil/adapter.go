package testutil

import (
	"maps"

	"github.com/kbukum/storekit/store"
)

// Action types understood by MapAdapter.
const (
	ActionLoading = "IS_LOADING"
	ActionSet     = "SET_DATA"
	ActionFail    = "ERROR"
	ActionDelete  = "DELETE_DATA"
)

// MapState maps keys to their projections.
type MapState map[string]store.Projection

// MapAdapter is a minimal copy-on-write adapter over MapState. Unknown
// actions return the state unchanged; missing keys project to the zero
// Projection.
type MapAdapter struct{}

var _ store.Adapter[MapState, string, store.Projection] = MapAdapter{}

// Reducer implements store.Adapter.
func (MapAdapter) Reducer(state MapState, action store.Action) MapState {
	var entry store.Projection
	switch action.Type {
	case ActionLoading:
		entry = state[action.Key]
		entry.Loading = true
	case ActionSet:
		entry = store.Projection{Data: action.Value}
	case ActionFail:
		entry = store.Projection{Data: state[action.Key].Data, Error: action.Err}
	case ActionDelete:
		if _, ok := state[action.Key]; !ok {
			return state
		}
		next := maps.Clone(state)
		delete(next, action.Key)
		return next
	default:
		return state
	}

	next := make(MapState, len(state)+1)
	maps.Copy(next, state)
	next[action.Key] = entry
	return next
}

// GetCacheByKey implements store.Adapter.
func (MapAdapter) GetCacheByKey(state MapState, key string) store.Projection {
	return state[key]
}

// Loading returns an action marking key as loading.
func Loading(key string) store.Action {
	return store.Action{Type: ActionLoading, Key: key}
}

// Set returns an action storing value under key.
func Set(key string, value any) store.Action {
	return store.Action{Type: ActionSet, Key: key, Value: value}
}

// Fail returns an action recording err for key.
func Fail(key string, err error) store.Action {
	return store.Action{Type: ActionFail, Key: key, Err: err}
}
