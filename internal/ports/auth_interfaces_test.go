package ports_test

import (
	"testing"

	"github.com/turnohq/turno-admin/internal/api"
	mocks "github.com/turnohq/turno-admin/internal/mocks/auth"
	"github.com/turnohq/turno-admin/internal/ports"
)

// This test only verifies that our doubles and the real client conform to
// the ports at compile time.
func TestImplementationsConformToPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthAPI = (*mocks.MockAuthAPI)(nil)
	var _ ports.TokenStore = (*mocks.MemoryTokenStore)(nil)
	var _ ports.AuthAPI = (*api.Client)(nil)
	var _ ports.APIClient = (*api.Client)(nil)
}
