// Package router maps (method, endpoint) requests onto store operations
// through an explicit route table and returns uniform results: the
// operation's value on success or {"error": message} on failure.
package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// Request is one call into the router. Endpoint may carry a query string;
// Params entries override query values with the same key.
type Request struct {
	Method   string            `json:"method"`
	Endpoint string            `json:"endpoint"`
	Params   map[string]string `json:"params,omitempty"`
	Body     json.RawMessage   `json:"body,omitempty"`
}

// Response is the uniform result of a request. Its JSON form is Data on
// success and {"error": message} on failure.
type Response struct {
	Data any
	Err  error
}

// MarshalJSON encodes the data, or the error object when Err is set.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Err.Error()})
	}
	return json.Marshal(r.Data)
}

// Status maps the result onto an HTTP status code.
func (r Response) Status() int {
	switch types.Kind(r.Err) {
	case types.KindNone:
		return http.StatusOK
	case types.KindValidation:
		return http.StatusBadRequest
	case types.KindNotFound, types.KindUnknownEndpoint:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Router dispatches requests to store operations.
type Router struct {
	store    types.Store
	routes   []route
	validate *validator.Validate
	log      zerolog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) { r.log = l }
}

// New creates a router over store with the full route table.
func New(store types.Store, opts ...Option) *Router {
	r := &Router{
		store:    store,
		routes:   routeTable(),
		validate: newValidator(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch resolves req against the route table and runs the matching
// operation. It never panics; every failure is carried in Response.Err.
func (r *Router) Dispatch(req Request) Response {
	start := time.Now()
	method := strings.ToUpper(strings.TrimSpace(req.Method))

	resp := r.dispatch(method, req)

	ev := r.log.Debug()
	if types.Kind(resp.Err) == types.KindStorage {
		ev = r.log.Error()
	}
	ev.Str("method", method).
		Str("endpoint", req.Endpoint).
		Int("status", resp.Status()).
		Dur("took", time.Since(start)).
		AnErr("error", resp.Err).
		Msg("request dispatched")
	return resp
}

func (r *Router) dispatch(method string, req Request) Response {
	path, rawQuery, _ := strings.Cut(req.Endpoint, "?")
	query, _ := url.ParseQuery(rawQuery)

	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}
		target, q := path, query
		if rt.raw() {
			target, q = req.Endpoint, nil
		}
		params, ok := rt.match(target)
		if !ok {
			continue
		}
		c := &call{
			path:  params,
			query: mergeQuery(q, req.Params),
			body:  req.Body,
			v:     r.validate,
		}
		data, err := rt.handler(r, c)
		if err != nil {
			return Response{Err: err}
		}
		return Response{Data: data}
	}
	return Response{Err: fmt.Errorf("%w: %s %s", types.ErrUnknownEndpoint, method, req.Endpoint)}
}

// shellPrefix marks the desktop shell's paths.
const shellPrefix = "/api/"

// route is one entry in the route table. Patterns are slash-separated;
// a {name} segment captures one path segment and a trailing {name...}
// captures the rest of the path, slashes included.
type route struct {
	method  string
	pattern string
	handler handlerFunc
}

type handlerFunc func(r *Router, c *call) (any, error)

// raw reports whether the route captures from the endpoint as sent. The
// desktop shell puts group names into the path unencoded, so for its rest
// captures '?', '#' and a trailing '/' are part of the name.
func (rt route) raw() bool {
	return strings.HasPrefix(rt.pattern, shellPrefix) && strings.HasSuffix(rt.pattern, "...}")
}

// match matches an escaped path against the pattern. A trailing slash is
// ignored except inside a rest capture.
func (rt route) match(path string) (map[string]string, bool) {
	pat := strings.Split(strings.Trim(rt.pattern, "/"), "/")
	path = strings.TrimPrefix(path, "/")
	var segs []string
	if path != "" {
		segs = strings.Split(path, "/")
	}

	params := map[string]string{}
	for i, p := range pat {
		name, isParam := strings.CutPrefix(p, "{")
		name = strings.TrimSuffix(name, "}")
		if rest, ok := strings.CutSuffix(name, "..."); isParam && ok {
			if i >= len(segs) {
				return nil, false
			}
			capture := strings.Join(segs[i:], "/")
			if capture == "" {
				return nil, false
			}
			params[rest] = unescape(capture)
			return params, true
		}
		if i >= len(segs) {
			return nil, false
		}
		seg := unescape(segs[i])
		if isParam {
			if seg == "" {
				return nil, false
			}
			params[name] = seg
			continue
		}
		if seg != p {
			return nil, false
		}
	}
	if len(segs) == len(pat)+1 && segs[len(pat)] == "" {
		return params, true
	}
	return params, len(segs) == len(pat)
}

// unescape decodes percent escapes, keeping s as sent when it holds a
// malformed one such as a bare "100%".
func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

func mergeQuery(q url.Values, params map[string]string) map[string]string {
	out := make(map[string]string, len(q)+len(params))
	for k := range q {
		out[k] = q.Get(k)
	}
	for k, v := range params {
		out[k] = v
	}
	return out
}
