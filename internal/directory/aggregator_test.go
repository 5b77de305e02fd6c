package directory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advohub/internal/directory/models"
	"advohub/internal/directory/ports"
	"advohub/internal/origins"
)

func okOutcome(data string) FetchOutcome {
	return FetchOutcome{Response: &origins.ListResponse{Success: true, Data: json.RawMessage(data)}}
}

func keys(records []models.UnifiedRecord) []models.Key {
	out := make([]models.Key, len(records))
	for i, r := range records {
		out[i] = r.Key()
	}
	return out
}

func TestAggregate_MixedShapes(t *testing.T) {
	outcomes := map[models.Origin]FetchOutcome{
		models.OriginAdmin:     okOutcome(`{"admins":[{"id":"1","name":"A"}]}`),
		models.OriginCommunity: okOutcome(`[{"id":"1","name":"B"}]`),
		models.OriginVolunteer: okOutcome(`[]`),
		models.OriginContact:   okOutcome(`[{"id":"9","name":"C","status":"new"}]`),
	}

	records := Aggregate(outcomes, nil)

	require.Len(t, records, 3)
	assert.Equal(t, []models.Key{
		{Origin: models.OriginAdmin, ID: "1"},
		{Origin: models.OriginCommunity, ID: "1"},
		{Origin: models.OriginContact, ID: "9"},
	}, keys(records))
	assert.NotEqual(t, records[0].Key(), records[1].Key(), "same id in two origins is two records")
	assert.Equal(t, "new", records[2].Status)
}

func TestAggregate_PartialFailureKeepsOrder(t *testing.T) {
	outcomes := map[models.Origin]FetchOutcome{
		models.OriginAdmin:     okOutcome(`{"admins":[{"id":"a1"}]}`),
		models.OriginCommunity: {Err: origins.NewOriginError(origins.ErrorTimeout, "community", "timed out", context.DeadlineExceeded)},
		models.OriginVolunteer: okOutcome(`[{"id":"v1"},{"id":"v2"}]`),
		models.OriginContact:   {Response: &origins.ListResponse{Success: false, Message: "maintenance"}},
	}

	records, reports := AggregateReport(outcomes, nil)

	assert.Equal(t, []models.Key{
		{Origin: models.OriginAdmin, ID: "a1"},
		{Origin: models.OriginVolunteer, ID: "v1"},
		{Origin: models.OriginVolunteer, ID: "v2"},
	}, keys(records))

	require.Len(t, reports, 4)
	assert.True(t, reports[0].Fetched)
	assert.Equal(t, 1, reports[0].Count)
	assert.False(t, reports[1].Fetched)
	assert.Equal(t, "timeout", reports[1].Reason)
	assert.Equal(t, 2, reports[2].Count)
	assert.False(t, reports[3].Fetched)
	assert.Contains(t, reports[3].Error, "maintenance")
	assert.Equal(t, "fetch_failure", reports[3].Reason)
}

func TestAggregate_AllFailIsEmptyNotError(t *testing.T) {
	boom := errors.New("connection refused")
	outcomes := map[models.Origin]FetchOutcome{
		models.OriginAdmin:     {Err: boom},
		models.OriginCommunity: {Err: boom},
		models.OriginVolunteer: {Err: boom},
		models.OriginContact:   {Err: boom},
	}

	records := Aggregate(outcomes, nil)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestAggregate_ShapeMismatch(t *testing.T) {
	cases := map[string]FetchOutcome{
		"admin as bare array is accepted": okOutcome(`[{"id":"x"}]`),
		"missing wrapper key":             okOutcome(`{"users":[{"id":"x"}]}`),
		"wrapper is not an array":         okOutcome(`{"admins":{"id":"x"}}`),
		"null data":                       okOutcome(`null`),
		"scalar data":                     okOutcome(`"nope"`),
		"nil response":                    {},
	}

	for name, outcome := range cases {
		t.Run(name, func(t *testing.T) {
			records, reports := AggregateReport(map[models.Origin]FetchOutcome{models.OriginAdmin: outcome}, nil)
			if name == "admin as bare array is accepted" {
				assert.Len(t, records, 1)
				return
			}
			assert.Empty(t, records)
			assert.Equal(t, "shape_mismatch", reports[0].Reason)
		})
	}
}

func TestAggregate_CommunityWrapperAliases(t *testing.T) {
	for _, key := range []string{"communityMembers", "members"} {
		outcomes := map[models.Origin]FetchOutcome{
			models.OriginCommunity: okOutcome(`{"` + key + `":[{"id":"c1"}]}`),
		}
		assert.Len(t, Aggregate(outcomes, nil), 1, key)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	outcomes := map[models.Origin]FetchOutcome{
		models.OriginAdmin:   okOutcome(`{"admins":[{"id":"1","name":"A","isActive":true}]}`),
		models.OriginContact: okOutcome(`[{"id":"9","name":"C","status":"new"}]`),
	}
	assert.Equal(t, Aggregate(outcomes, nil), Aggregate(outcomes, nil))
}

func TestFetcher_FetchAllSettlesEveryOrigin(t *testing.T) {
	admin := origins.NewMemoryAdmin(map[string]any{"_id": "a1", "name": "A"})
	community := origins.NewMemory(origins.NameCommunity, "", map[string]any{"_id": "c1"})
	community.FailList(origins.NewOriginError(origins.ErrorOutage, origins.NameCommunity, "down", nil))
	contact := origins.NewMemory(origins.NameContact, "", map[string]any{"_id": "t1", "status": "new"})

	f := NewFetcher(ports.Sources{Admin: admin, Community: community, Contact: contact})
	outcomes := f.FetchAll(context.Background())

	require.Len(t, outcomes, 3, "unconfigured volunteer origin is absent")
	assert.NoError(t, outcomes[models.OriginAdmin].Err)
	assert.Error(t, outcomes[models.OriginCommunity].Err)
	assert.NoError(t, outcomes[models.OriginContact].Err)

	records := Aggregate(outcomes, nil)
	assert.Equal(t, []models.Key{
		{Origin: models.OriginAdmin, ID: "a1"},
		{Origin: models.OriginContact, ID: "t1"},
	}, keys(records))
}
