package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gtotp/pkg/i18n"
	"gtotp/pkg/logging"
)

// envelope is the body of every response.
type envelope struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

// Response is what a Handler hands back on success. Errors may be set on a
// successful response too: a rejected code is still a 200.
type Response struct {
	Status int
	Data   any
	Errors []string
}

type Handler func(r *http.Request) (Response, error)

type Middleware func(http.Handler) http.Handler

// Chain wraps h so that mws[0] runs first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Router is an http.Handler around httprouter with a fixed middleware chain
// and JSON envelopes for every outcome.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

func NewRouter(mws ...Middleware) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
	}
	hr.NotFound = Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &Error{status: http.StatusNotFound, key: i18n.MsgNotFound})
	}), mws...)
	hr.MethodNotAllowed = Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &Error{status: http.StatusMethodNotAllowed, key: i18n.MsgMethodNotAllow})
	}), mws...)
	return &Router{hr: hr, mws: mws}
}

func (r *Router) GET(path string, h Handler) {
	r.endpoint(http.MethodGet, path, h)
}

func (r *Router) POST(path string, h Handler) {
	r.endpoint(http.MethodPost, path, h)
}

func (r *Router) endpoint(method, path string, h Handler) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(req)
		if err != nil {
			writeError(w, req, err)
			return
		}
		status := resp.Status
		if status == 0 {
			status = http.StatusOK
		}
		writeJSON(w, envelope{Data: resp.Data, Errors: nonNil(resp.Errors)}, status)
	}), r.mws...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	herr := asError(err)
	status := herr.StatusCode()
	if status >= http.StatusInternalServerError {
		logging.Errorf("%s %s [%s]: %v", r.Method, r.URL.Path, RequestID(r.Context()), err)
	}
	writeJSON(w, envelope{Errors: herr.Messages(r.Header.Get("Accept-Language"))}, status)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("encode response: %v", err)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
