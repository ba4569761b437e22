//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/docqa/rod"
	"github.com/stretchr/testify/require"
)

// newManager launches a browser that is closed when the test ends.
func newManager(t *testing.T, opts ...rod.ManagerOption) *rod.BrowserManager {
	t.Helper()
	manager, err := rod.NewBrowserManager(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}
