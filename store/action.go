package store

// Action describes a state transition handed to an Adapter's Reducer.
type Action struct {
	// Type selects the transition. The empty type is the no-op sentinel.
	Type string `json:"type"`
	// Key addresses the entry the action applies to.
	Key string `json:"key,omitempty"`
	// Value carries the payload of data-bearing actions.
	Value any `json:"value,omitempty"`
	// Err carries the failure of error actions.
	Err error `json:"-"`
}

// ActionInit is the sentinel type every reducer must accept as a no-op. The
// provider reduces the zero state with it to derive a default initial state.
const ActionInit = ""

// ActionReplace is reported to hooks and logs for Provider.Replace. It never
// reaches a reducer.
const ActionReplace = "@@storekit/REPLACE"
