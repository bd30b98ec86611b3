package autoroutes

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
)

type manifestHandler struct {
	m *Manifest
}

func newManifestHandler(m *Manifest) *manifestHandler {
	return &manifestHandler{m: m}
}

func (h *manifestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	onError := errorHandlerCtx.Value(r.Context())
	for k, v := range h.m.Headers {
		w.Header().Set(k, v)
	}

	if h.m.Data != nil {
		if err := quickResponse(w, h.m.Status, h.m.Data); err != nil {
			onError(w, r, err)
		}
		return
	}

	body := h.m.Body
	resp := htmx.NewResponse().StatusCode(h.m.Status)
	if htmx.IsHTMX(r) {
		if h.m.Partial != "" {
			body = h.m.Partial
		} else {
			resp = resp.Retarget("body")
		}
	}
	props := pathValues(r, body)
	if hx := h.m.HTMX; hx != nil && htmx.IsHTMX(r) {
		if hx.Retarget != "" {
			resp = resp.Retarget(hx.Retarget)
		}
		if hx.PushURL != "" {
			resp = resp.PushURL(Format(hx.PushURL, pathValues(r, hx.PushURL)))
		}
		for _, name := range hx.Trigger {
			resp = resp.AddTrigger(htmx.Trigger(name))
		}
	}

	buf := newResponseBuffer()
	if err := textComponent(body, props).Render(r.Context(), buf); err != nil {
		buf.release()
		onError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", h.m.ContentType)
	if err := resp.Write(w); err != nil {
		buf.release()
		onError(w, r, err)
		return
	}
	if err := buf.flush(w); err != nil {
		serveLoggerCtx.Value(r.Context()).Warn("failed to write response body",
			"path", r.URL.Path, "status", h.m.Status, "error", err)
	}
}

// textComponent renders text with {name} placeholders filled from props.
// Values are HTML-escaped; the template text itself is trusted.
func textComponent(text string, props map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		escaped := make(map[string]string, len(props))
		for k, v := range props {
			escaped[k] = templ.EscapeString(v)
		}
		_, err := io.WriteString(w, Format(text, escaped))
		return err
	})
}

// pathValues resolves the placeholders named in text against the request's
// path parameters. Both ServeMux and chi parameters are consulted.
func pathValues(r *http.Request, text string) map[string]string {
	props := make(map[string]string)
	for _, match := range placeholder.FindAllStringSubmatch(text, -1) {
		name := match[1]
		v := r.PathValue(name)
		if v == "" {
			v = chi.URLParam(r, name)
		}
		if v != "" {
			props[name] = v
		}
	}
	return props
}
