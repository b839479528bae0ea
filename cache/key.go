package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/kbukum/storekit/fetch"
)

// ComputeKey derives a stable cache key from a request: an xxhash over the
// method, URL, sorted query, sorted headers and body. Header names are
// case-insensitive and the request id header is ignored. Streamed bodies
// are not hashed.
func ComputeKey(req fetch.Request) string {
	d := xxhash.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = d.WriteString(p)
			_, _ = d.Write([]byte{0})
		}
	}

	write(req.MethodOrDefault(), req.URL)

	for _, k := range sortedKeys(req.Query) {
		write("q", k, req.Query[k])
	}

	headers := make(map[string]string, len(req.Headers))
	for k, v := range req.Headers {
		name := http.CanonicalHeaderKey(k)
		if name == fetch.HeaderRequestID {
			continue
		}
		headers[name] = v
	}
	for _, k := range sortedKeys(headers) {
		write("h", k, headers[k])
	}

	write("b", bodyKey(req.Body))
	return fmt.Sprintf("%016x", d.Sum64())
}

func bodyKey(body any) string {
	switch v := body.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case io.Reader:
		return "stream"
	default:
		// encoding/json sorts map keys, so equal maps hash alike.
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%#v", v)
		}
		return string(data)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
