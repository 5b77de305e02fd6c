package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advohub/internal/directory/models"
	"advohub/internal/directory/ports"
	"advohub/internal/origins"
)

// pagedVolunteers serves one volunteer per page and records the pages asked for.
type pagedVolunteers struct {
	mu        sync.Mutex
	total     int
	failPage  int
	requested []int
}

func (p *pagedVolunteers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	p.mu.Lock()
	p.requested = append(p.requested, page)
	p.mu.Unlock()

	if page == p.failPage {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"success":true,"data":[{"_id":"v%d","fullName":"Vol %d"}],"pagination":{"page":%d,"limit":1,"total":%d,"totalPages":%d}}`,
		page, page, page, p.total, p.total)
}

func (p *pagedVolunteers) pages() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.requested...)
}

func volunteerFetcher(t *testing.T, h http.Handler, opts ...FetcherOption) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	sources := ports.Sources{Volunteer: origins.NewVolunteerClient(srv.URL)}
	return NewFetcher(sources, append([]FetcherOption{WithPageLimit(1)}, opts...)...)
}

func TestFetcher_FollowsPagination(t *testing.T) {
	origin := &pagedVolunteers{total: 2}
	f := volunteerFetcher(t, origin)

	records, reports := AggregateReport(f.FetchAll(context.Background()), nil)

	assert.Equal(t, []int{1, 2}, origin.pages())
	assert.Equal(t, []models.Key{
		{Origin: models.OriginVolunteer, ID: "v1"},
		{Origin: models.OriginVolunteer, ID: "v2"},
	}, keys(records))
	assert.Equal(t, 2, reports[2].Count)
	assert.False(t, reports[2].Truncated)
}

func TestFetcher_PageCapMarksTruncated(t *testing.T) {
	origin := &pagedVolunteers{total: 5}
	f := volunteerFetcher(t, origin, WithMaxPages(3))

	records, reports := AggregateReport(f.FetchAll(context.Background()), nil)

	assert.Equal(t, []int{1, 2, 3}, origin.pages())
	assert.Len(t, records, 3)
	require.Equal(t, models.OriginVolunteer, reports[2].Origin)
	assert.True(t, reports[2].Fetched)
	assert.True(t, reports[2].Truncated)
}

func TestFetcher_FailedLaterPageFailsOrigin(t *testing.T) {
	origin := &pagedVolunteers{total: 3, failPage: 2}
	f := volunteerFetcher(t, origin)

	records, reports := AggregateReport(f.FetchAll(context.Background()), nil)

	assert.Equal(t, []int{1, 2}, origin.pages())
	assert.Empty(t, records)
	assert.False(t, reports[2].Fetched)
	assert.Equal(t, string(origins.ErrorOutage), reports[2].Reason)
}

func TestFetcher_SinglePageOriginIsAskedOnce(t *testing.T) {
	origin := &pagedVolunteers{total: 1}
	f := volunteerFetcher(t, origin)

	records := Aggregate(f.FetchAll(context.Background()), nil)

	assert.Equal(t, []int{1}, origin.pages())
	assert.Len(t, records, 1)
}
