package fetch

import "github.com/kbukum/storekit/errors"

var errEmptyResponse = errors.FetchFailed("", nil).WithDetail("reason", "client returned neither response nor error")
