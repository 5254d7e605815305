package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbaille/worktime/internal/config"
	"github.com/pbaille/worktime/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const week = "😴 .5\nScheduled: Mar 8, 2021 at 8:15 AM to 8:45 AM\n\n👨🏻‍💻 .75\nScheduled: Mar 9, 2021 at 4:45 PM to 5:30 PM, CDT\n"

func newServer(t *testing.T) http.Handler {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "worktime.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return New(s, config.Default(), ":0", zap.NewNop()).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, payload)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t), "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateReport(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, "POST", "/reports", CreateReportRequest{Text: week, AvailableHours: 30})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.ID)
	assert.Equal(t, []string{
		"Mar 8, 2021: " + config.Building + ": 0 " + config.Leadership + ": 0 " + config.Etc + ": 0.5",
		"Mar 9, 2021: " + config.Building + ": 0.75 " + config.Leadership + ": 0 " + config.Etc + ": 0",
		"",
		config.Building + ": 0.75/12 " + config.Leadership + ": 0/12 " + config.Etc + ": 0.5/6 (1.25/30)",
	}, resp.Lines)
}

func TestCreateReport_Saved(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, "POST", "/reports", CreateReportRequest{Text: week, Save: true})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 40.0, created.Report.AvailableHours)

	rec = do(t, h, "GET", "/reports/"+created.ID[:8], nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Lines, fetched.Lines)

	rec = do(t, h, "GET", "/reports?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Runs  []json.RawMessage `json:"runs"`
		Limit int               `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Runs, 1)
	assert.Equal(t, 5, list.Limit)
}

func TestCreateReport_BadInput(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name string
		body interface{}
		want string
	}{
		{"empty text", CreateReportRequest{}, "text is required"},
		{"odd lines", CreateReportRequest{Text: "😴 .5\n"}, "tag line without a description"},
		{"bad clock", CreateReportRequest{Text: "😴 .5\nMar 8, 2021 at 8:15 to 8:45\n"}, "H:MM AM/PM"},
		{"negative hours", CreateReportRequest{Text: week, AvailableHours: -1}, "available hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "POST", "/reports", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/reports", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetReport_NotFound(t *testing.T) {
	rec := do(t, newServer(t), "GET", "/reports/deadbeef", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
