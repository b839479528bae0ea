package equality

import (
	stderrors "errors"
	"reflect"

	"github.com/kbukum/storekit/store"
)

// Deep compares Data by value with reflect.DeepEqual. Errors are equal when
// errors.Is matches or their messages agree.
func Deep(prev, next store.Projection) bool {
	return prev.Loading == next.Loading &&
		sameError(prev.Error, next.Error) &&
		reflect.DeepEqual(prev.Data, next.Data)
}

func sameError(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return stderrors.Is(a, b) || a.Error() == b.Error()
}
