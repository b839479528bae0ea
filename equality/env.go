package equality

import (
	"encoding/json"

	"github.com/kbukum/storekit/store"
)

// Variable names bound in Expr and CEL expressions.
const (
	VarPrev = "prev"
	VarNext = "next"
)

// toEnv flattens a projection into the map seen by expressions:
// {"data": ..., "error": message or nil, "loading": bool}. Data is reduced
// to JSON values so struct fields are addressed by their json names.
func toEnv(p store.Projection) map[string]any {
	var errMsg any
	if p.Error != nil {
		errMsg = p.Error.Error()
	}
	return map[string]any{
		"data":    plain(p.Data),
		"error":   errMsg,
		"loading": p.Loading,
	}
}

func plain(v any) any {
	switch v.(type) {
	case nil, string, bool, float64, int, int64:
		return v
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
