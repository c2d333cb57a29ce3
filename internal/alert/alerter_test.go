package alert

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAlert() Alert {
	return Alert{
		Type:    AlertTypeStageFailure,
		Stage:   "multipliers",
		RunID:   "3f1c2b9e-0000-4000-8000-000000000001",
		Title:   "Stage failed",
		Message: "recompute multipliers: connection refused",
		Fields: map[string]string{
			"duration": "12s",
		},
	}
}

func countingServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func TestMultiAlerter_Send_AllChannels(t *testing.T) {
	slackSrv, slackReceived := countingServer(t, http.StatusOK)
	webhookSrv, webhookReceived := countingServer(t, http.StatusOK)

	multi := NewMultiAlerter(time.Hour, testLogger(), NewSlackAlerter(slackSrv.URL), NewWebhookAlerter(webhookSrv.URL))

	require.NoError(t, multi.Send(context.Background(), testAlert()))
	assert.Equal(t, int32(1), slackReceived.Load())
	assert.Equal(t, int32(1), webhookReceived.Load())
}

func TestMultiAlerter_CooldownPerTypeAndStage(t *testing.T) {
	srv, received := countingServer(t, http.StatusOK)

	multi := NewMultiAlerter(time.Hour, testLogger(), NewWebhookAlerter(srv.URL))
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	multi.nowFn = func() time.Time { return now }

	a := testAlert()
	require.NoError(t, multi.Send(context.Background(), a))

	// Another run of the same failing stage is suppressed.
	a.RunID = "another-run"
	require.NoError(t, multi.Send(context.Background(), a))
	assert.Equal(t, int32(1), received.Load())

	// A different stage is not.
	other := testAlert()
	other.Stage = "rewards"
	require.NoError(t, multi.Send(context.Background(), other))
	assert.Equal(t, int32(2), received.Load())

	// After the window the original alert goes through again.
	now = now.Add(time.Hour + time.Second)
	require.NoError(t, multi.Send(context.Background(), a))
	assert.Equal(t, int32(3), received.Load())
}

func TestMultiAlerter_PartialFailure(t *testing.T) {
	failSrv, _ := countingServer(t, http.StatusInternalServerError)
	goodSrv, goodReceived := countingServer(t, http.StatusOK)

	multi := NewMultiAlerter(time.Hour, testLogger(), NewWebhookAlerter(failSrv.URL), NewWebhookAlerter(goodSrv.URL))

	err := multi.Send(context.Background(), testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(1), goodReceived.Load())
}

func TestSlackAlerter_PayloadFormat(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := testAlert()
	a.Fields["attempts"] = "3"
	require.NoError(t, NewSlackAlerter(srv.URL).Send(context.Background(), a))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(captured, &payload))
	text := payload["text"]

	assert.True(t, strings.HasPrefix(text, ":warning: *[STAGE_FAILURE]* Stage failed (stage multipliers)"))
	assert.Contains(t, text, "recompute multipliers: connection refused")
	assert.Contains(t, text, "- *run_id*: "+a.RunID)
	assert.Less(t, strings.Index(text, "*attempts*"), strings.Index(text, "*duration*"))
}

func TestSlackEmoji(t *testing.T) {
	assert.Equal(t, ":warning:", slackEmoji(AlertTypeStageFailure))
	assert.Equal(t, ":rotating_light:", slackEmoji(AlertTypeRunFailure))
	assert.Equal(t, ":white_check_mark:", slackEmoji(AlertTypeRecovery))
	assert.Equal(t, ":white_check_mark:", slackEmoji(AlertTypeRunSuccess))
}

func TestWebhookAlerter_PayloadFormat(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		captured, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := testAlert()
	require.NoError(t, NewWebhookAlerter(srv.URL).Send(context.Background(), a))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(captured, &payload))
	assert.Equal(t, "STAGE_FAILURE", payload["type"])
	assert.Equal(t, "multipliers", payload["stage"])
	assert.Equal(t, a.RunID, payload["run_id"])
	fields, ok := payload["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "12s", fields["duration"])

	ts, ok := payload["time"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, 5*time.Second)
}

func TestFromConfig(t *testing.T) {
	_, ok := FromConfig("", "", time.Minute, testLogger()).(*NoopAlerter)
	assert.True(t, ok)

	multi, ok := FromConfig("https://hooks.slack.test/x", "https://alerts.test", time.Minute, testLogger()).(*MultiAlerter)
	require.True(t, ok)
	assert.Len(t, multi.alerters, 2)
}
