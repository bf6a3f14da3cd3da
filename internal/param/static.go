package param

import (
	"context"
	"fmt"
)

// StaticFetcher serves parameters from memory. It backs local runs that have no Parameter Store.
type StaticFetcher map[string][]string

func (f StaticFetcher) Fetch(_ context.Context, path string) (string, error) {
	values, ok := f[path]
	if !ok || len(values) == 0 {
		return "", fmt.Errorf("parameter %q not found", path)
	}
	return values[0], nil
}

func (f StaticFetcher) FetchAll(_ context.Context, path string) ([]string, error) {
	return f[path], nil
}
