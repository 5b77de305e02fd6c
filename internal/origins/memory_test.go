package origins

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ListShapes(t *testing.T) {
	ctx := context.Background()

	t.Run("admin nests under admins", func(t *testing.T) {
		m := NewMemoryAdmin(map[string]any{"_id": "a1"})
		resp, err := m.List(ctx, ListParams{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"admins":[{"_id":"a1"}]}`, string(resp.Data))
	})

	t.Run("empty origin lists an empty array", func(t *testing.T) {
		m := NewMemory(NameContact, "")
		resp, err := m.List(ctx, ListParams{})
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(resp.Data))
	})

	t.Run("injected failures", func(t *testing.T) {
		m := NewMemory(NameVolunteer, "")
		m.RejectList("down for maintenance")
		resp, err := m.List(ctx, ListParams{})
		require.NoError(t, err)
		assert.False(t, resp.Success)

		m.FailList(errors.New("boom"))
		_, err = m.List(ctx, ListParams{})
		assert.Error(t, err)
	})
}

func TestMemory_Mutations(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(NameContact, "", map[string]any{"_id": "c1", "status": "new"}, map[string]any{"id": 7})

	resp, err := m.Update(ctx, "c1", map[string]any{"status": "read"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	rec, ok := m.Record("c1")
	require.True(t, ok)
	assert.Equal(t, "read", rec["status"])

	resp, err = m.Delete(ctx, "7")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	_, ok = m.Record("7")
	assert.False(t, ok)

	resp, err = m.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "contact record not found", resp.Message)
	assert.Equal(t, 3, m.MutationCalls())
}

func TestMemory_ToggleStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdmin(map[string]any{"_id": "a1", "isActive": true}, map[string]any{"_id": "a2"})

	_, err := m.ToggleStatus(ctx, "a1")
	require.NoError(t, err)
	rec, _ := m.Record("a1")
	assert.Equal(t, false, rec["isActive"])

	resp, err := m.ToggleStatus(ctx, "a2")
	require.NoError(t, err)
	var data map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, false, data["isActive"])
}

func TestMemory_RecordsAreCopied(t *testing.T) {
	seed := map[string]any{"_id": "v1", "status": "pending"}
	m := NewMemory(NameVolunteer, "", seed)
	seed["status"] = "approved"

	rec, _ := m.Record("v1")
	assert.Equal(t, "pending", rec["status"])
}
