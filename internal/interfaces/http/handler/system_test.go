package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Ping(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodGet, "/api/v1/system/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PingResponse
	app.decodeData(t, env, &resp)
	assert.Equal(t, "pong", resp.Message)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodGet, "/api/v1/system/info", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SystemInfoResponse
	app.decodeData(t, env, &resp)
	assert.Equal(t, "StockTrack API", resp.Name)
	assert.Equal(t, "test", resp.Version)
	assert.True(t, strings.HasPrefix(resp.GoVersion, "go"))
	assert.NotEmpty(t, resp.Uptime)
}
