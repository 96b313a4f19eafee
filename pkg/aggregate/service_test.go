package aggregate

import (
	"context"
	"net/http"
	"testing"

	"github.com/arnokha/neowatch/internal/testutil"
	"github.com/arnokha/neowatch/pkg/client"
	"github.com/arnokha/neowatch/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, mock *testutil.MockNeoAPI) *Service {
	t.Helper()

	c, err := client.New(client.Config{
		APIKey:    "test-key",
		BrowseURL: mock.BrowseURL(),
		FeedURL:   mock.FeedURL(),
	})
	require.NoError(t, err)
	return NewService(c)
}

// fastOptions returns options without pacing delays so tests run quickly.
func fastOptions() Options {
	opts := DefaultOptions()
	opts.SleepSeconds = 0
	return opts
}

func TestNearestMisses_SingleApproachPerResult(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 1,
		testutil.Object("1",
			testutil.Approach("2020-01-01", "Earth", "300.0"),
			testutil.Approach("2020-02-01", "Earth", "100.0"),
			testutil.Approach("2020-03-01", "Earth", "200.0"),
		),
	)))

	service := newTestService(t, mock)
	opts := fastOptions()
	opts.N = 3

	misses, err := service.NearestMisses(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, misses, 3)

	for i, miss := range misses {
		assert.Len(t, miss.CloseApproachData, 1, "result %d must carry exactly one approach", i)
		assert.Equal(t, "1", miss.ID)
	}
	assert.Equal(t, "100.0", misses[0].CloseApproachData[0].MissDistance.Miles)
	assert.Equal(t, "200.0", misses[1].CloseApproachData[0].MissDistance.Miles)
	assert.Equal(t, "300.0", misses[2].CloseApproachData[0].MissDistance.Miles)
}

func TestNearestMisses_PageThenObjectThenRankOrder(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 2,
		testutil.Object("a",
			testutil.Approach("2020-01-01", "Earth", "9.0"),
			testutil.Approach("2020-02-01", "Earth", "1.0"),
		),
		testutil.Object("b",
			testutil.Approach("2020-01-01", "Earth", "5.0"),
			testutil.Approach("2020-02-01", "Earth", "7.0"),
		),
	)))
	mock.SetPage(1, testutil.OKPage(testutil.BrowseBody(1, 2,
		testutil.Object("c",
			testutil.Approach("2020-01-01", "Earth", "2.0"),
			testutil.Approach("2020-02-01", "Earth", "3.0"),
		),
	)))

	service := newTestService(t, mock)
	opts := fastOptions()
	opts.N = 2
	opts.TotalPages = 2

	misses, err := service.NearestMisses(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, misses, 6)

	wantIDs := []string{"a", "a", "b", "b", "c", "c"}
	wantMiles := []string{"1.0", "9.0", "5.0", "7.0", "2.0", "3.0"}
	for i := range misses {
		assert.Equal(t, wantIDs[i], misses[i].ID, "position %d", i)
		assert.Equal(t, wantMiles[i], misses[i].CloseApproachData[0].MissDistance.Miles, "position %d", i)
	}
}

func TestNearestMisses_SubsetOverN(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 1,
		testutil.Object("1",
			testutil.Approach("2020-01-01", "Earth", "300.0"),
			testutil.Approach("2020-02-01", "Earth", "100.0"),
			testutil.Approach("2020-03-01", "Earth", "200.0"),
		),
	)))

	service := newTestService(t, mock)

	smallOpts := fastOptions()
	smallOpts.N = 2
	small, err := service.NearestMisses(context.Background(), smallOpts)
	require.NoError(t, err)

	largeOpts := fastOptions()
	largeOpts.N = 3
	large, err := service.NearestMisses(context.Background(), largeOpts)
	require.NoError(t, err)

	// The smaller request is a prefix of the larger one per object.
	require.Len(t, small, 2)
	require.Len(t, large, 3)
	for i := range small {
		assert.Equal(t, large[i].CloseApproachData[0], small[i].CloseApproachData[0])
	}
}

func TestNearestMisses_SubsetOverPages(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 2,
		testutil.Object("a", testutil.Approach("2020-01-01", "Earth", "1.0")),
	)))
	mock.SetPage(1, testutil.OKPage(testutil.BrowseBody(1, 2,
		testutil.Object("b", testutil.Approach("2020-01-01", "Earth", "2.0")),
	)))

	service := newTestService(t, mock)

	oneOpts := fastOptions()
	oneOpts.N = 1
	oneOpts.TotalPages = 1
	one, err := service.NearestMisses(context.Background(), oneOpts)
	require.NoError(t, err)

	twoOpts := fastOptions()
	twoOpts.N = 1
	twoOpts.TotalPages = 2
	two, err := service.NearestMisses(context.Background(), twoOpts)
	require.NoError(t, err)

	require.Len(t, one, 1)
	require.Len(t, two, 2)
	assert.Equal(t, one[0].ID, two[0].ID)
}

func TestNearestMisses_TooFewApproaches(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 1,
		testutil.Object("a",
			testutil.Approach("2020-01-01", "Earth", "1.0"),
			testutil.Approach("2020-02-01", "Earth", "2.0"),
		),
		testutil.Object("b", testutil.Approach("2020-01-01", "Earth", "3.0")),
	)))

	service := newTestService(t, mock)
	opts := fastOptions()
	opts.N = 2

	misses, err := service.NearestMisses(context.Background(), opts)
	require.Error(t, err)
	// The work done before the failing object is handed back.
	assert.Len(t, misses, 2)
	assert.Equal(t, "a", misses[0].ID)
}

func TestNearestMisses_MissingPageSkipped(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 3,
		testutil.Object("a", testutil.Approach("2020-01-01", "Earth", "1.0")),
	)))
	// Page 1 is unconfigured; the mock answers 404.
	mock.SetPage(2, testutil.OKPage(testutil.BrowseBody(2, 3,
		testutil.Object("c", testutil.Approach("2020-01-01", "Earth", "3.0")),
	)))

	service := newTestService(t, mock)
	opts := fastOptions()
	opts.N = 1
	opts.TotalPages = 3

	misses, err := service.NearestMisses(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, misses, 2)
	assert.Equal(t, "a", misses[0].ID)
	assert.Equal(t, "c", misses[1].ID)
	assert.Equal(t, 3, mock.GetRequestCount(), "absent pages are skipped, not retried")
}

func TestNearestMisses_ExhaustedBudgetPartialReturn(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetRemaining("0")
	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 3,
		testutil.Object("a", testutil.Approach("2020-01-01", "Earth", "1.0")),
	)))
	mock.SetPage(1, testutil.OKPage(testutil.BrowseBody(1, 3,
		testutil.Object("b", testutil.Approach("2020-01-01", "Earth", "2.0")),
	)))

	service := newTestService(t, mock)
	opts := fastOptions()
	opts.N = 1
	opts.TotalPages = 3
	opts.WaitForRateLimit = false

	misses, err := service.NearestMisses(context.Background(), opts)
	require.NoError(t, err)
	// The first page's results survive; the loop stops before page 1.
	require.Len(t, misses, 1)
	assert.Equal(t, "a", misses[0].ID)
	assert.Equal(t, 1, mock.GetRequestCount())
}

func TestNearestMisses_ExhaustedBudgetWaits(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetRemaining("0")
	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 2,
		testutil.Object("a", testutil.Approach("2020-01-01", "Earth", "1.0")),
	)))
	mock.SetPage(1, testutil.OKPage(testutil.BrowseBody(1, 2,
		testutil.Object("b", testutil.Approach("2020-01-01", "Earth", "2.0")),
	)))

	service := newTestService(t, mock)
	opts := fastOptions()
	opts.N = 1
	opts.TotalPages = 2
	opts.WaitForRateLimit = true
	opts.PauseMinutes = 0

	misses, err := service.NearestMisses(context.Background(), opts)
	require.NoError(t, err)
	// Waiting out the pause keeps the loop going.
	require.Len(t, misses, 2)
	assert.Equal(t, 2, mock.GetRequestCount())
}

func TestNearestMisses_InvalidOptionsNoRequests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{name: "n below minimum", mutate: func(o *Options) { o.N = 0 }},
		{name: "n above maximum", mutate: func(o *Options) { o.N = 101 }},
		{name: "pages below minimum", mutate: func(o *Options) { o.TotalPages = 0 }},
		{name: "pages above maximum", mutate: func(o *Options) { o.TotalPages = 1501 }},
		{name: "negative sleep", mutate: func(o *Options) { o.SleepSeconds = -1 }},
		{name: "pause above maximum", mutate: func(o *Options) { o.PauseMinutes = 10_001 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockNeoAPI()
			defer mock.Close()
			mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 1)))

			service := newTestService(t, mock)
			opts := fastOptions()
			tt.mutate(&opts)

			_, err := service.NearestMisses(context.Background(), opts)
			require.ErrorIs(t, err, validate.ErrRange)
			assert.Equal(t, 0, mock.GetRequestCount(), "validation failures must precede any fetch")
		})
	}
}

func TestNearestMissesValues_TypeChecks(t *testing.T) {
	tests := []struct {
		name string
		n    any
		wait any
	}{
		{name: "float n", n: 1.0, wait: false},
		{name: "string n", n: "1", wait: false},
		{name: "string wait flag", n: 1, wait: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockNeoAPI()
			defer mock.Close()

			service := newTestService(t, mock)
			_, err := service.NearestMissesValues(context.Background(), tt.n, 1, 0.0, 60.0, tt.wait)
			require.ErrorIs(t, err, validate.ErrType)
			assert.Equal(t, 0, mock.GetRequestCount())
		})
	}
}

func TestNearestMissesValues_Valid(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetPage(0, testutil.OKPage(testutil.BrowseBody(0, 1,
		testutil.Object("1", testutil.Approach("2020-01-01", "Earth", "1.0")),
	)))

	service := newTestService(t, mock)
	misses, err := service.NearestMissesValues(context.Background(), 1, 1, 0.0, 60.0, false)
	require.NoError(t, err)
	assert.Len(t, misses, 1)
}

func TestClosestApproaches_EquivalentToNEquals1(t *testing.T) {
	body := testutil.BrowseBody(0, 1,
		testutil.Object("1",
			testutil.Approach("2020-01-01", "Earth", "300.0"),
			testutil.Approach("2020-02-01", "Earth", "100.0"),
		),
		testutil.Object("2",
			testutil.Approach("2020-01-01", "Earth", "50.0"),
		),
	)

	mock := testutil.NewMockNeoAPI()
	defer mock.Close()
	mock.SetPage(0, testutil.OKPage(body))

	service := newTestService(t, mock)

	closest, err := service.ClosestApproaches(context.Background(), fastOptions())
	require.NoError(t, err)

	oneOpts := fastOptions()
	oneOpts.N = 1
	nearest, err := service.NearestMisses(context.Background(), oneOpts)
	require.NoError(t, err)

	assert.Equal(t, nearest, closest)
	require.Len(t, closest, 2)
	assert.Equal(t, "100.0", closest[0].CloseApproachData[0].MissDistance.Miles)
	assert.Equal(t, "50.0", closest[1].CloseApproachData[0].MissDistance.Miles)
}

func TestClosestApproaches_NonOKStatusSkipped(t *testing.T) {
	mock := testutil.NewMockNeoAPI()
	defer mock.Close()

	mock.SetPage(0, testutil.Response{StatusCode: http.StatusTooManyRequests, Body: `{"error": "slow down"}`, Remaining: "10"})

	service := newTestService(t, mock)
	misses, err := service.ClosestApproaches(context.Background(), fastOptions())
	require.NoError(t, err)
	assert.Empty(t, misses)
}
