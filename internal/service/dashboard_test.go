package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/testutil"
)

func newDashboardService(t *testing.T) (*DashboardService, *testutil.FakeAPI) {
	t.Helper()
	client, fake := newFakeClient(t)
	svc, err := NewDashboardService(DashboardServiceOptions{Client: client})
	require.NoError(t, err)
	return svc, fake
}

func TestDashboardSummary(t *testing.T) {
	svc, _ := newDashboardService(t)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TotalUsers)
	assert.Equal(t, 9, summary.ActiveUsers)
	assert.Equal(t, 4, summary.ActiveShifts)
	assert.Equal(t, 2, summary.PendingShifts)
}

func TestDashboardOverview(t *testing.T) {
	svc, fake := newDashboardService(t)
	seedShiftFixtures(fake)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, overview.Summary.TotalUsers)
	assert.Len(t, overview.RecentShifts, 3)

	// Both fetches went out, the shifts one with the recent-item cap.
	var sawDashboard, sawShifts bool
	for _, req := range fake.Requests() {
		if strings.Contains(req, "/admin/dashboard") {
			sawDashboard = true
		}
		if strings.Contains(req, "/shifts/history") && strings.Contains(req, "limit=5") {
			sawShifts = true
		}
	}
	assert.True(t, sawDashboard)
	assert.True(t, sawShifts)
}

func TestDashboardUnauthenticated(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newAnonymousClient(t, fake.BaseURL())
	svc, err := NewDashboardService(DashboardServiceOptions{Client: client})
	require.NoError(t, err)

	_, err = svc.Summary(context.Background())
	assert.True(t, apperrors.IsUnauthenticated(err))
}
