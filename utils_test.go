package autoroutes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestResponseBuffer(t *testing.T) {
	buf := newResponseBuffer()
	buf.WriteString("hello")
	rec := httptest.NewRecorder()
	require.NoError(t, buf.flush(rec))
	assert.Equal(t, "hello", rec.Body.String())

	buf = newResponseBuffer()
	assert.Zero(t, buf.Len(), "pooled buffers come back empty")
	buf.WriteString("lost")
	assert.Error(t, buf.flush(failingWriter{}))
}

func TestQuickResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, quickResponse(rec, http.StatusNoContent, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, quickResponse(rec, http.StatusOK, map[string]int{"n": 1}))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	assert.Error(t, quickResponse(rec, http.StatusOK, make(chan int)))
}
