// Package diagnostics exposes the result of configuration validation over
// HTTP, under /_config:
//
//	GET /_config/bindings        discovered bindings, mappings and resolvers
//	GET /_config/report          problems of the last validation (422 if any)
//	GET /_config/values/{key}    where a key's value comes from
package diagnostics

import (
	"errors"
	"net/http"
	"strings"

	"github.com/km-arc/configinject/framework/config"
	gohttp "github.com/km-arc/configinject/framework/http"
	"github.com/km-arc/configinject/framework/inject"
	"github.com/km-arc/configinject/framework/routing"
)

// State is what one bootstrap produced.
type State struct {
	Registry     *inject.Registry
	Registration inject.Registration
	Report       *inject.Report
}

// Handler serves the diagnostics endpoints.
type Handler struct {
	cfg   *config.Config
	state State
	// reveal allows ?reveal=1 to include raw values.
	reveal bool
}

// Option customises a Handler.
type Option func(*Handler)

// WithReveal lets /values return raw values when asked with ?reveal=1.
// Only enable it when app.debug is on.
func WithReveal(on bool) Option {
	return func(h *Handler) { h.reveal = on }
}

// NewHandler builds a Handler over cfg and the bootstrap state.
func NewHandler(cfg *config.Config, state State, opts ...Option) *Handler {
	h := &Handler{cfg: cfg, state: state}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the endpoints under /_config.
func (h *Handler) Routes(r *routing.Router) {
	r.Prefix("/_config", func(r *routing.Router) {
		r.Get("/bindings", h.Bindings)
		r.Get("/report", h.Report)
		r.Get("/values/{key}", h.Value)
	})
}

type bindingView struct {
	Key       string `json:"key,omitempty"`
	Component string `json:"component,omitempty"`
	Member    string `json:"member,omitempty"`
	Type      string `json:"type"`
	Default   string `json:"default,omitempty"`
	Error     string `json:"error,omitempty"`
}

type mappingView struct {
	Mapping string `json:"mapping"`
	Prefix  string `json:"prefix"`
	Key     string `json:"key"`
}

// Bindings lists every binding with its derived key. ?prefix= filters by key.
func (h *Handler) Bindings(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	if h.state.Registry == nil {
		res.ServerError("configuration has not been discovered")
		return
	}
	prefix := req.Query("prefix")

	bindings := []bindingView{}
	for _, b := range h.state.Registry.Bindings() {
		view := bindingView{Component: b.Component, Member: b.Member, Type: b.Type.String()}
		if d, ok := b.Default.Get(); ok {
			view.Default = d
		}
		key, err := b.Key()
		if err != nil {
			view.Error = err.Error()
		}
		view.Key = key
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		bindings = append(bindings, view)
	}

	mappings := []mappingView{}
	for _, m := range h.state.Registration.Mappings {
		if prefix != "" && !strings.HasPrefix(m.Pair.Prefix, prefix) {
			continue
		}
		mappings = append(mappings, mappingView{Mapping: m.Pair.Mapping.Name, Prefix: m.Pair.Prefix, Key: m.Key()})
	}

	resolvers := []string{}
	for _, e := range h.state.Registration.Resolvers {
		resolvers = append(resolvers, e.Key())
	}

	res.Success(map[string]any{
		"bindings":  bindings,
		"mappings":  mappings,
		"resolvers": resolvers,
	})
}

type problemView struct {
	Kind    string `json:"kind"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

// Report returns the last validation report: 200 when empty, 422 otherwise.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	if h.state.Report == nil {
		res.ServerError("configuration has not been validated")
		return
	}
	if h.state.Report.Empty() {
		res.Success(map[string]any{"valid": true, "problems": []problemView{}})
		return
	}

	problems := make([]problemView, 0, h.state.Report.Len())
	for _, p := range h.state.Report.Problems() {
		problems = append(problems, describe(p))
	}
	res.Unprocessable("The configuration is invalid.", problems)
}

func describe(err error) problemView {
	var (
		nre  *inject.NameResolutionError
		miss *inject.MissingValueError
		conv *inject.ConversionError
		mapp *inject.MappingError
	)
	switch {
	case errors.As(err, &nre):
		return problemView{Kind: "name", Message: err.Error()}
	case errors.As(err, &miss):
		return problemView{Kind: "missing", Key: miss.Name, Message: err.Error()}
	case errors.As(err, &conv):
		return problemView{Kind: "conversion", Key: conv.Name, Message: err.Error()}
	case errors.As(err, &mapp):
		return problemView{Kind: "mapping", Key: mapp.Prefix, Message: err.Error()}
	}
	return problemView{Kind: "other", Message: err.Error()}
}

// Value reports which source provides a key. The raw value is included
// only with ?reveal=1 on a handler built WithReveal(true).
func (h *Handler) Value(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	key := req.RouteParam("key")

	cv := h.cfg.ConfigValue(key)
	if !cv.Found {
		res.NotFound("No source provides " + key + ".")
		return
	}
	body := map[string]any{
		"key":     cv.Name,
		"source":  cv.SourceName,
		"ordinal": cv.SourceOrdinal,
	}
	if h.reveal && req.QueryBool("reveal") {
		body["value"] = cv.Value
	}
	res.Success(body)
}
