package autoroutes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// responseBuffer holds a rendered body until the handler knows rendering
// succeeded, so that an error can still change the status code.
type responseBuffer struct {
	*bytes.Buffer
}

func newResponseBuffer() responseBuffer {
	return responseBuffer{Buffer: bufferPool.Get().(*bytes.Buffer)}
}

// flush writes the body to w and returns the buffer to the pool.
func (b responseBuffer) flush(w io.Writer) error {
	defer b.release()
	_, err := w.Write(b.Bytes())
	return err
}

// release returns the buffer to the pool without writing it.
func (b responseBuffer) release() {
	b.Reset()
	bufferPool.Put(b.Buffer)
}

// quickResponse writes payload as JSON with status, or an empty body when
// payload is nil.
func quickResponse(w http.ResponseWriter, status int, payload any) error {
	if payload == nil {
		w.WriteHeader(status)
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
