package syncpolicy_test

import (
	"testing"

	"github.com/crashdash/crashdash/internal/syncpolicy"
	"github.com/stretchr/testify/require"
)

func TestTableIsTotal(t *testing.T) {
	seen := map[syncpolicy.Strategy]bool{}
	for _, op := range syncpolicy.Operations {
		strategy := syncpolicy.For(op)
		require.Contains(t, []syncpolicy.Strategy{syncpolicy.Refetch, syncpolicy.PatchLocal}, strategy)
		seen[strategy] = true
	}
	// The policy mix is deliberate: both strategies must be in use.
	require.True(t, seen[syncpolicy.Refetch])
	require.True(t, seen[syncpolicy.PatchLocal])
}

func TestDeliberateChoices(t *testing.T) {
	require.Equal(t, syncpolicy.Refetch, syncpolicy.For(syncpolicy.CreateProject))
	require.Equal(t, syncpolicy.PatchLocal, syncpolicy.For(syncpolicy.UpdateProject))
	require.Equal(t, syncpolicy.PatchLocal, syncpolicy.For(syncpolicy.RegenerateKey))
	require.Equal(t, syncpolicy.PatchLocal, syncpolicy.For(syncpolicy.ReportTestAlert))
}

func TestUnknownOperationFallsBackToRefetch(t *testing.T) {
	require.Equal(t, syncpolicy.Refetch, syncpolicy.For(syncpolicy.Operation("bogus")))
}
