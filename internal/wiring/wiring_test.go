package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotspot/internal/app"
	_ "go.trai.ch/hotspot/internal/wiring"
)

// TestGraftExecute resolves the full graph the way main does.
func TestGraftExecute(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
