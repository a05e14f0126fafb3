package http_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.bryk.io/routebroker/broker"
	transporthttp "go.bryk.io/routebroker/transport/http"
)

type testCodec struct{}

func (testCodec) Topic(payload []byte) (key []byte, isDelete bool) {
	parts := strings.SplitN(string(payload), "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, false
	}
	return []byte(parts[0]), parts[1] == "DELETE"
}

func (testCodec) Copy(payload []byte) ([]byte, error) {
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func newServer(t *testing.T) *transporthttp.Server {
	t.Helper()
	b, err := broker.New(broker.WithPriorities(2), broker.WithCodec(testCodec{}))
	require.NoError(t, err)
	return transporthttp.NewServer(b, nil, 0, 20*time.Second, 0, 0)
}

func TestIngestAndLongPoll(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest("POST", "/v1/routes", bytes.NewBufferString("net1=v1"))
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, 204, rr.Code)

	req = httptest.NewRequest("GET", "/v1/clients/alice/next?timeout=500ms", nil)
	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	require.Equal(t, 200, rr.Code)

	var env struct {
		Kind    string `json:"kind"`
		Topic   string `json:"topic"`
		Payload []byte `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "update", env.Kind)
	assert.Equal(t, "net1", env.Topic)
	assert.Equal(t, "v1", string(env.Payload))
}

func TestLongPollTimesOutWithNoContent(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest("GET", "/v1/clients/bob/next?timeout=50ms", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, 204, rr.Code)
}

func TestDeleteClientUnknownReturnsNotFound(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest("DELETE", "/v1/clients/nobody", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, 404, rr.Code)
}

func TestDeleteLazilyCreatedClientReturnsNoContent(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest("GET", "/v1/clients/carol/next?timeout=10ms", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, 204, rr.Code)

	req = httptest.NewRequest("DELETE", "/v1/clients/carol", nil)
	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, 204, rr.Code)
}

func TestIngestIgnoresUnparsableTopic(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest("POST", "/v1/routes", bytes.NewBufferString("not-kv"))
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, 204, rr.Code)
}

func TestIngestRateLimitRejectsBurst(t *testing.T) {
	b, err := broker.New(broker.WithPriorities(2), broker.WithCodec(testCodec{}))
	require.NoError(t, err)
	s := transporthttp.NewServer(b, nil, 0, 20*time.Second, 1, 1)

	req := httptest.NewRequest("POST", "/v1/routes", bytes.NewBufferString("net1=v1"))
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, 204, rr.Code)

	req = httptest.NewRequest("POST", "/v1/routes", bytes.NewBufferString("net2=v2"))
	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, 429, rr.Code)
}
