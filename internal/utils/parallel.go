package utils

import (
	"context"
	"sync"
)

// Check is a named dependency check.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunChecks executes all checks concurrently and returns each one's error by name.
func RunChecks(ctx context.Context, checks []Check) map[string]error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]error, len(checks))

	wg.Add(len(checks))
	for _, check := range checks {
		go func(c Check) {
			defer wg.Done()
			err := c.Run(ctx)
			mu.Lock()
			results[c.Name] = err
			mu.Unlock()
		}(check)
	}

	wg.Wait()
	return results
}
