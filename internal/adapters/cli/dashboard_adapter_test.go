package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/crm/internal/ports/primary"
)

func TestDashboardAdapter_Show(t *testing.T) {
	service := &mockDashboardService{stats: &primary.DashboardStats{
		TotalClients: 3, ActiveClients: 2,
		TotalProposals: 2, ApprovedProposals: 1,
		TotalTasks: 4, CompletedTasks: 1, PendingTasks: 2,
		OverdueTasks: 1,
	}}
	var buf bytes.Buffer
	adapter := NewDashboardAdapter(service, &buf)

	_, err := adapter.Show(context.Background(), "Empresa Demo")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Empresa Demo")
	assert.Contains(t, out, "(2 active)")
	assert.Contains(t, out, "(1 approved)")
	assert.Contains(t, out, "(1 done, 2 pending)")
	assert.Regexp(t, `Overdue\s+1`, out)
}

func TestDashboardAdapter_Error(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewDashboardAdapter(&mockDashboardService{err: errors.New("count failed")}, &buf)

	_, err := adapter.Show(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load dashboard: count failed")
	assert.Empty(t, buf.String())
}
