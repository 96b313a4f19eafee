// Package testutil provides a configurable mock NeoWs API server for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/arnokha/neowatch/pkg/neo"
)

// RateLimitHeader mirrors the header the real API sets on every response.
const RateLimitHeader = "X-RateLimit-Remaining"

// Response is one canned mock response.
type Response struct {
	StatusCode int
	Body       string

	// Remaining overrides the server-wide remaining-request count for
	// this response when non-empty.
	Remaining string

	// OmitRateLimitHeader suppresses the header entirely (the real API
	// always sends it; tests exercise the degenerate case).
	OmitRateLimitHeader bool
}

// MockNeoAPI serves the browse and feed endpoints from canned responses.
type MockNeoAPI struct {
	server *httptest.Server
	mu     sync.RWMutex

	pages map[int]Response    // browse responses by page number
	weeks map[string]Response // feed responses by start date

	// Remaining is the default X-RateLimit-Remaining value.
	Remaining string

	// Tracking
	RequestCount int
	LastAPIKey   string
}

// NewMockNeoAPI creates a mock server with a healthy request budget.
func NewMockNeoAPI() *MockNeoAPI {
	mock := &MockNeoAPI{
		pages:     make(map[int]Response),
		weeks:     make(map[string]Response),
		Remaining: "100",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/browse", mock.handleBrowse)
	mux.HandleFunc("/feed", mock.handleFeed)
	mock.server = httptest.NewServer(mux)

	return mock
}

// BrowseURL returns the mock browse endpoint.
func (m *MockNeoAPI) BrowseURL() string { return m.server.URL + "/browse" }

// FeedURL returns the mock feed endpoint.
func (m *MockNeoAPI) FeedURL() string { return m.server.URL + "/feed" }

// Close shuts down the mock server.
func (m *MockNeoAPI) Close() { m.server.Close() }

// SetPage configures the response for a browse page number.
func (m *MockNeoAPI) SetPage(page int, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page] = resp
}

// SetWeek configures the response for a feed start date.
func (m *MockNeoAPI) SetWeek(startDate string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weeks[startDate] = resp
}

// SetRemaining changes the default remaining-request count.
func (m *MockNeoAPI) SetRemaining(remaining string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Remaining = remaining
}

// GetRequestCount returns the number of requests served.
func (m *MockNeoAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

func (m *MockNeoAPI) handleBrowse(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	m.mu.Lock()
	m.RequestCount++
	m.LastAPIKey = r.URL.Query().Get("api_key")
	resp, ok := m.pages[page]
	remaining := m.Remaining
	m.mu.Unlock()

	m.write(w, resp, ok, remaining)
}

func (m *MockNeoAPI) handleFeed(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")

	m.mu.Lock()
	m.RequestCount++
	m.LastAPIKey = r.URL.Query().Get("api_key")
	resp, ok := m.weeks[startDate]
	remaining := m.Remaining
	m.mu.Unlock()

	m.write(w, resp, ok, remaining)
}

func (m *MockNeoAPI) write(w http.ResponseWriter, resp Response, ok bool, remaining string) {
	if !ok {
		resp = Response{StatusCode: http.StatusNotFound, Body: `{"error": "not found"}`}
	}
	if resp.Remaining != "" {
		remaining = resp.Remaining
	}
	if !resp.OmitRateLimitHeader {
		w.Header().Set(RateLimitHeader, remaining)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// Approach builds a close-approach record for test data.
func Approach(date, body, miles string) neo.CloseApproach {
	return neo.CloseApproach{
		CloseApproachDate: date,
		OrbitingBody:      body,
		MissDistance:      neo.MissDistance{Miles: miles},
	}
}

// Object builds a NEO record for test data.
func Object(id string, approaches ...neo.CloseApproach) neo.NearEarthObject {
	return neo.NearEarthObject{
		ID:                id,
		Name:              "(" + id + ")",
		CloseApproachData: approaches,
	}
}

// BrowseBody marshals a browse page body holding the given objects.
func BrowseBody(pageNumber, totalPages int, objects ...neo.NearEarthObject) string {
	page := neo.Page{
		Page: neo.PageInfo{
			Size:          len(objects),
			TotalElements: len(objects),
			TotalPages:    totalPages,
			Number:        pageNumber,
		},
		NearEarthObjects: objects,
	}
	data, err := json.Marshal(page)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// FeedBody marshals a feed week body keyed by the start date.
func FeedBody(startDate string, objects ...neo.NearEarthObject) string {
	week := neo.Week{
		ElementCount:     len(objects),
		NearEarthObjects: map[string][]neo.NearEarthObject{startDate: objects},
	}
	data, err := json.Marshal(week)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// OKPage wraps a browse body in a 200 response.
func OKPage(body string) Response {
	return Response{StatusCode: http.StatusOK, Body: body}
}
