package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegors/flight-tracker/internal/aviation"
	"github.com/yegors/flight-tracker/internal/config"
	"github.com/yegors/flight-tracker/internal/presenter"
	"github.com/yegors/flight-tracker/pkg/logger"
)

func TestRunServer_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.QueryLog.Enabled = true
	cfg.QueryLog.DBPath = filepath.Join(t.TempDir(), "queries.db")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, cfg, logger.NewNop()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.FileExists(t, cfg.QueryLog.DBPath)
}

func TestRunView_PrintsCards(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[
			{"flight":{"iata":"LH400"},"airline":{"name":"Lufthansa"},"flight_status":"active"},
			{"flight":{"iata":"AA100"},"airline":{"name":"American Airlines"},"flight_status":"scheduled"}
		]}`))
	}))
	t.Cleanup(srv.Close)

	serverURL = srv.URL
	configPath, envFile = "", filepath.Join(t.TempDir(), "missing.env")

	var out bytes.Buffer
	liveCmd.SetOut(&out)
	liveCmd.SetContext(context.Background())

	err := runView(liveCmd, presenter.TabLive, presenter.Query{Status: "active"}, presenter.SortByAirline)
	require.NoError(t, err)

	assert.Equal(t, "flight_status=active&limit=20", gotQuery)
	text := out.String()
	assert.Less(t, bytes.Index(out.Bytes(), []byte("AA100")), bytes.Index(out.Bytes(), []byte("LH400")))
	assert.Contains(t, text, "American Airlines")
}

func TestRunView_FailureMessage(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch airports"}`))
	}))
	t.Cleanup(srv.Close)

	serverURL = srv.URL
	configPath, envFile = "", filepath.Join(t.TempDir(), "missing.env")

	var out bytes.Buffer
	airportsCmd.SetOut(&out)
	airportsCmd.SetContext(context.Background())

	err := runView(airportsCmd, presenter.TabAirports, presenter.Query{}, "")

	assert.ErrorIs(t, err, errViewFailed)
	assert.Contains(t, out.String(), "Failed to load airports. Please try again.")
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    aviation.FlightStatus
		wantErr bool
	}{
		{"", "", false},
		{"active", aviation.StatusActive, false},
		{" Landed ", aviation.StatusLanded, false},
		{"unknown", "", true},
		{"boarding", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseStatus(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "scheduled, active, landed, cancelled, incident, diverted")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLiveCmd_RejectsUnknownStatus(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	t.Cleanup(srv.Close)
	serverURL = srv.URL

	liveStatus = "boarding"
	t.Cleanup(func() { liveStatus = "" })

	err := liveCmd.RunE(liveCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid status "boarding"`)
	assert.False(t, requested)
}

func TestRunView_HTMLFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"airport_name":"London Heathrow","iata_code":"LHR","country_name":"United Kingdom"}]}`))
	}))
	t.Cleanup(srv.Close)

	serverURL = srv.URL
	configPath, envFile = "", filepath.Join(t.TempDir(), "missing.env")
	outputFormat = "html"
	t.Cleanup(func() { outputFormat = "terminal" })

	var out bytes.Buffer
	airportsCmd.SetOut(&out)
	airportsCmd.SetContext(context.Background())

	err := runView(airportsCmd, presenter.TabAirports, presenter.Query{}, "")
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, `<div class="airport-card">`)
	assert.Contains(t, text, `<div class="flight-number">LHR - London Heathrow</div>`)
	assert.Contains(t, text, "United Kingdom")
}

func TestRunView_UnknownFormat(t *testing.T) {
	outputFormat = "pdf"
	t.Cleanup(func() { outputFormat = "terminal" })

	err := runView(airportsCmd, presenter.TabAirports, presenter.Query{}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "pdf"`)
}
