package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersionMatch(t *testing.T) {
	supplied := 5
	assert.NoError(t, CheckVersion(5, &supplied))
}

func TestCheckVersionSkippedWhenNotSupplied(t *testing.T) {
	// Optimistic concurrency is opt-in per request.
	assert.NoError(t, CheckVersion(5, nil))
}

func TestCheckVersionConflict(t *testing.T) {
	supplied := 4
	err := CheckVersion(5, &supplied)
	require.Error(t, err)

	var conflict *VersionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 5, conflict.Current)
	assert.Equal(t, 4, conflict.Supplied)
	assert.Contains(t, conflict.Error(), "current version is 5")
	assert.Contains(t, conflict.Error(), "provided 4")
}
