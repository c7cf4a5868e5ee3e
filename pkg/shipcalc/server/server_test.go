package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/dal"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/geocode"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/logger"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lookups counts upstream searches per query
type lookups struct {
	mu      sync.Mutex
	byQuery map[string]int
}

func (l *lookups) add(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byQuery[q]++
}

func (l *lookups) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.byQuery {
		n += c
	}
	return n
}

func (l *lookups) of(q string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byQuery[q]
}

// nominatim fakes the upstream search endpoint with a fixed address book
func nominatim(t *testing.T, status int) (*httptest.Server, *lookups) {
	t.Helper()
	coords := map[string][2]string{
		pricing.OriginAddress:         {"47.4769", "19.1071"},
		"1076 Budapest, Garay tér 13": {"47.5015", "19.0822"},
	}
	hits := &lookups{byQuery: map[string]int{}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		hits.add(q)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		c, ok := coords[q]
		if !ok {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{{"lat": c[0], "lon": c[1]}})
	}))
	t.Cleanup(ts.Close)
	return ts, hits
}

func newTestServer(t *testing.T, upstreamStatus int) (*httptest.Server, *lookups) {
	t.Helper()
	upstream, hits := nominatim(t, upstreamStatus)
	log := logger.Discard()
	engine := pricing.NewEngine(geocode.New(geocode.Options{BaseURL: upstream.URL, Logger: log}), pricing.WithLogger(log))

	server := newHTTPServer(engine, log)
	ts := httptest.NewServer(server.router())
	t.Cleanup(ts.Close)
	return ts, hits
}

func TestServer(t *testing.T) {
	tests := []struct {
		name       string
		upstream   int
		body       string
		wantStatus int
		wantBody   string
		wantHits   int
		// destination and its expected search count, checked even on error paths
		dest     string
		destHits int
	}{
		{
			name:       "Quote",
			upstream:   http.StatusOK,
			body:       `{"address":"1076 Budapest, Garay tér 13","floors":2,"extreme":true,"transfer":false,"oldRemoval":true,"tier":"furniture_assembly"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"km":4.1,"breakdown":{"shipCost":22500,"floorCost":2000,"extremeCost":5000,"transferCost":0,"oldCost":15000,"total":44500}}`,
			wantHits:   2,
		},
		{
			name:       "FormFieldNames",
			upstream:   http.StatusOK,
			body:       `{"destination":"1076 Budapest, Garay tér 13","floors":2,"extreme":true,"removeOld":true,"service":"furniture_assembly"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"km":4.1,"breakdown":{"shipCost":22500,"floorCost":2000,"extremeCost":5000,"transferCost":0,"oldCost":15000,"total":44500}}`,
			wantHits:   2,
		},
		{
			name:       "DefaultsOnly",
			upstream:   http.StatusOK,
			body:       `{"address":"1076 Budapest, Garay tér 13","tier":"basic"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"km":4.1,"breakdown":{"shipCost":15000,"floorCost":0,"extremeCost":0,"transferCost":0,"oldCost":0,"total":15000}}`,
			wantHits:   2,
		},
		{
			name:       "AddressNotFound",
			upstream:   http.StatusOK,
			body:       `{"address":"Sehol utca 1","tier":"basic"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Cím nem geokódolható."}`,
			wantHits:   -1,
			dest:       "Sehol utca 1",
			destHits:   geocode.DefaultAttempts,
		},
		{
			name:       "UpstreamDown",
			upstream:   http.StatusServiceUnavailable,
			body:       `{"address":"1076 Budapest, Garay tér 13","tier":"basic"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Geokódolási hiba."}`,
			wantHits:   -1,
		},
		{
			name:       "UnknownTier",
			upstream:   http.StatusOK,
			body:       `{"address":"1076 Budapest, Garay tér 13","tier":"unknown_value"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Ismeretlen szolgáltatás: \"unknown_value\"."}`,
			wantHits:   0,
		},
		{
			name:       "NegativeFloors",
			upstream:   http.StatusOK,
			body:       `{"address":"1076 Budapest, Garay tér 13","floors":-1,"tier":"basic"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Az emeletek száma nem lehet negatív."}`,
			wantHits:   0,
		},
		{
			name:       "TooManyFloors",
			upstream:   http.StatusOK,
			body:       `{"address":"1076 Budapest, Garay tér 13","floors":9223372036854776,"tier":"basic"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Az emeletek száma legfeljebb 200 lehet."}`,
			wantHits:   0,
		},
		{
			name:       "MalformedBody",
			upstream:   http.StatusOK,
			body:       `{"address":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Érvénytelen kérés."}`,
			wantHits:   0,
		},
		{
			name:       "WrongFieldType",
			upstream:   http.StatusOK,
			body:       `{"address":"x","floors":"two","tier":"basic"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Érvénytelen kérés."}`,
			wantHits:   0,
		},
		{
			name:       "TrailingData",
			upstream:   http.StatusOK,
			body:       `{"address":"1076 Budapest, Garay tér 13","tier":"basic"} trailing-garbage`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Érvénytelen kérés."}`,
			wantHits:   0,
		},
		{
			name:       "SecondJSONValue",
			upstream:   http.StatusOK,
			body:       `{"address":"1076 Budapest, Garay tér 13","tier":"basic"}{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Érvénytelen kérés."}`,
			wantHits:   0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts, hits := newTestServer(t, tc.upstream)

			resp, err := http.Post(ts.URL+"/api/calculate-shipping", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.JSONEq(t, tc.wantBody, string(respBody))
			// the origin lookup races the failing one, so its hit is not counted on error paths
			if tc.upstream == http.StatusOK && tc.wantHits >= 0 {
				assert.Equal(t, tc.wantHits, hits.total())
			}
			if tc.dest != "" {
				assert.Equal(t, tc.destHits, hits.of(tc.dest))
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t, http.StatusOK)

	resp, err := http.Get(ts.URL + "/api/calculate-shipping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	ts, _ := newTestServer(t, http.StatusOK)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", got["status"])
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &pricing.ValidationError{Field: "tier", Message: "bad tier"}, "bad tier"},
		{"not found", geocode.ErrNotFound, msgNotFound},
		{"transport", &geocode.TransportError{StatusCode: 502}, msgGeocode},
		{"malformed", geocode.ErrMalformed, msgGeocode},
		{"generic geocode", geocode.ErrGeocode, msgGeocode},
		{"anything else", io.ErrUnexpectedEOF, msgUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorMessage(tc.err))
		})
	}
}

func TestQuoteBody_Request(t *testing.T) {
	var body dal.QuoteBody
	require.NoError(t, json.Unmarshal([]byte(`{"address":"A","destination":"B","oldRemoval":false,"removeOld":true,"tier":"basic","service":"furniture"}`), &body))

	assert.Equal(t, dal.QuoteRequest{DestinationAddress: "A", Tier: dal.TierBasic}, body.Request())
}
