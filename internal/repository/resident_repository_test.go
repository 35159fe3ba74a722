package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

func TestResidentDirectory_FindByName(t *testing.T) {
	ctx := context.Background()
	dir := NewResidentDirectory(domain.Resident{ID: "1", Name: "Sofia Ramirez", Unit: "101"})
	dir.Add(ctx, domain.Resident{ID: "2", Name: "Diego Torres", Unit: "204"})

	resident, ok := dir.FindByName(ctx, " Sofia Ramirez ")
	require.True(t, ok)
	assert.Equal(t, "101", resident.Unit)

	resident, ok = dir.FindByName(ctx, "Diego Torres")
	require.True(t, ok)
	assert.Equal(t, "204", resident.Unit)

	_, ok = dir.FindByName(ctx, "Nadie")
	assert.False(t, ok)
	_, ok = dir.FindByName(ctx, "")
	assert.False(t, ok)

	assert.Len(t, dir.List(ctx), 2)
}
