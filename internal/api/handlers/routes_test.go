package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/internal/api/handlers"
	"github.com/donaldgifford/resale-router/internal/store"
	storeMocks "github.com/donaldgifford/resale-router/internal/store/mocks"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

func TestRoutesHandler_GetRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name: "found",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().GetRoutingResult(mock.Anything, "r1").
					Return(&domain.RoutingResult{
						ID:       "r1",
						Category: "kitchen",
						Primary:  domain.DispositionRoute{Type: domain.RouteResale, Priority: 1},
					}, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"id":"r1"`,
		},
		{
			name: "not found",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().GetRoutingResult(mock.Anything, "r1").Return(nil, store.ErrNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "routing result not found",
		},
		{
			name: "store error",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().GetRoutingResult(mock.Anything, "r1").Return(nil, errors.New("connection refused")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			tt.setupMock(ms)

			_, api := humatest.New(t)
			handlers.RegisterRouteLogRoutes(api, handlers.NewRoutesHandler(ms))

			resp := api.Get("/api/v1/routes/r1")
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestRoutesHandler_ListRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name: "no filters",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().
					ListRoutingResults(mock.Anything, mock.MatchedBy(func(q *store.RoutingQuery) bool {
						return q.Route == nil && q.Category == nil && q.Since == nil && q.Limit == 0
					})).
					Return([]store.RoutingSummary{{ID: "r1", PrimaryRoute: domain.RouteDonation}}, 1, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total":1`,
		},
		{
			name:  "all filters",
			query: "?route=resale&category=Kitchen&source=sold_listings&since=2026-10-01T00:00:00Z&min_return=25&limit=10&offset=20",
			setupMock: func(m *storeMocks.MockStore) {
				since := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
				m.EXPECT().
					ListRoutingResults(mock.Anything, mock.MatchedBy(func(q *store.RoutingQuery) bool {
						return *q.Route == domain.RouteResale &&
							*q.Category == "Kitchen" &&
							*q.Source == domain.SourceSoldListings &&
							q.Since.Equal(since) &&
							*q.MinReturn == 25 &&
							q.Limit == 10 && q.Offset == 20
					})).
					Return(nil, 0, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"results":[]`,
		},
		{
			name:       "invalid since",
			query:      "?since=yesterday",
			setupMock:  func(*storeMocks.MockStore) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "RFC 3339",
		},
		{
			name:       "unknown route type",
			query:      "?route=landfill",
			setupMock:  func(*storeMocks.MockStore) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "store error",
			setupMock: func(m *storeMocks.MockStore) {
				m.EXPECT().ListRoutingResults(mock.Anything, mock.Anything).Return(nil, 0, errors.New("timeout")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			tt.setupMock(ms)

			_, api := humatest.New(t)
			handlers.RegisterRouteLogRoutes(api, handlers.NewRoutesHandler(ms))

			resp := api.Get("/api/v1/routes" + tt.query)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestRoutesHandler_NoStore(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterRouteLogRoutes(api, handlers.NewRoutesHandler(nil))

	assert.Equal(t, http.StatusNotFound, api.Get("/api/v1/routes/r1").Code)
	assert.Equal(t, http.StatusServiceUnavailable, api.Get("/api/v1/routes").Code)
}
