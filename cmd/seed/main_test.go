package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/testutil"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	accounts := testutil.NewAccounts()
	hasher := helpers.NewBcryptHasher(4)

	acc, created, err := seedAdmin(ctx, accounts, hasher, "Root", " Root@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.RoleAdmin, acc.Role)
	assert.Equal(t, "root@example.com", acc.Email)
	assert.True(t, hasher.Verify(acc.PasswordHash, "hunter22"))

	again, created, err := seedAdmin(ctx, accounts, hasher, "Root", "root@example.com", "other-pass")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, acc.ID, again.ID)
	assert.True(t, hasher.Verify(again.PasswordHash, "hunter22"))
}
