package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/skovmand/advent-of-code-2017/internal/config"
	"github.com/skovmand/advent-of-code-2017/internal/engine"
	"github.com/skovmand/advent-of-code-2017/internal/metrics"
	"github.com/skovmand/advent-of-code-2017/internal/puzzle"
	"github.com/skovmand/advent-of-code-2017/internal/report"
	"github.com/skovmand/advent-of-code-2017/internal/tower"
)

const (
	maxBatchSize  = 100
	defaultFormat = "json"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng     *engine.Engine
	loader  *config.Loader
	formats *report.Registry
	log     *zap.Logger
	mux     *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *config.Loader, log *zap.Logger) http.Handler {
	h := &Handler{
		eng:     eng,
		loader:  loader,
		formats: report.Default(),
		log:     log,
		mux:     http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /v1/diagnose", h.diagnose)
	h.mux.HandleFunc("POST /v1/diagnose/batch", h.diagnoseBatch)
	h.mux.HandleFunc("POST /v1/weights", h.weights)
	h.mux.HandleFunc("GET /v1/config", h.showConfig)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return requestMiddleware(accessLogMiddleware(log, h.mux))
}

// POST /v1/diagnose: synchronous single-tower diagnosis.
func (h *Handler) diagnose(w http.ResponseWriter, r *http.Request) {
	f, ok := h.formatter(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	res, err := h.eng.ProcessSync(r.Context(), in)
	if err != nil {
		kind := engine.Outcome(err)
		writeError(w, statusFor(kind), kind, err.Error())
		return
	}

	w.Header().Set("X-Diagnostic-Id", res.ID)
	if res.Err != nil {
		render(w, f, statusFor(res.Outcome), func(out io.Writer) error {
			return f.Failure(out, report.Failure{Source: res.Source, Kind: res.Outcome, Error: res.Error})
		})
		return
	}
	render(w, f, http.StatusOK, func(out io.Writer) error {
		return f.Correction(out, res.Correction)
	})
}

// POST /v1/diagnose/batch: up to 100 towers, results in input order.
func (h *Handler) diagnoseBatch(w http.ResponseWriter, r *http.Request) {
	var ins []*puzzle.Input
	if err := json.NewDecoder(h.body(w, r)).Decode(&ins); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if len(ins) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "batch must contain at least one input")
		return
	}
	if len(ins) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("batch size %d exceeds max %d", len(ins), maxBatchSize))
		return
	}
	for i, in := range ins {
		if in == nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("input %d is null", i))
			return
		}
		if in.Source == "" {
			in.Source = fmt.Sprintf("batch[%d]", i)
		}
	}

	results := h.eng.ProcessBatch(r.Context(), ins)
	resp := batchResponse{Total: len(results), Results: results}
	for _, res := range results {
		if res.Err == nil {
			resp.OK++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /v1/weights: per-node total weights, or one node with ?node=.
// Runs on the request goroutine under the engine's diagnostic timeout.
func (h *Handler) weights(w http.ResponseWriter, r *http.Request) {
	f, ok := h.formatter(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	t, err := tower.Load(in.Text)
	if err != nil {
		kind := tower.ErrorKind(err)
		writeError(w, statusFor(kind), kind, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.eng.Timeout())
	defer cancel()
	opts := h.eng.Options()
	agg := tower.NewAggregator(t, tower.WithMaxDepth(opts.MaxDepth))

	var nodes []tower.NodeWeight
	if name := r.URL.Query().Get("node"); name != "" {
		total, err := agg.TotalWeight(name)
		if err != nil {
			kind := tower.ErrorKind(err)
			status := statusFor(kind)
			if kind == "unknown_node" {
				status = http.StatusNotFound
			}
			writeError(w, status, kind, err.Error())
			return
		}
		nodes = []tower.NodeWeight{{Name: name, Weight: t.Node(name).Weight, TotalWeight: total}}
	} else if nodes, err = agg.All(ctx); err != nil {
		kind := tower.ErrorKind(err)
		writeError(w, statusFor(kind), kind, err.Error())
		return
	}

	render(w, f, http.StatusOK, func(out io.Writer) error {
		return f.Weights(out, report.Weights{Root: t.Root(), Nodes: nodes})
	})
}

// GET /v1/config: the configuration currently in effect.
func (h *Handler) showConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path":       h.loader.Path(),
		"config":     h.loader.Config(),
		"diagnostic": h.eng.Options(),
	})
}

// POST /v1/config/reload: re-read the config file and swap diagnostic options.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_config", err.Error())
		return
	}
	h.eng.SwapOptions(cfg.Diagnostic)
	h.log.Info("config reloaded via api", zap.String("request_id", RequestID(r.Context())))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":   true,
		"diagnostic": cfg.Diagnostic,
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the diagnostic queue is more than 80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

func (h *Handler) formatter(w http.ResponseWriter, r *http.Request) (report.Formatter, bool) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = defaultFormat
	}
	f, err := h.formats.Get(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, false
	}
	return f, true
}

func (h *Handler) body(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, h.loader.Config().Server.MaxBodyBytes)
}

// readInput accepts either raw puzzle text or a JSON {"input": "..."} document.
func (h *Handler) readInput(w http.ResponseWriter, r *http.Request) (*puzzle.Input, bool) {
	data, err := io.ReadAll(h.body(w, r))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "bad_request",
				fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, false
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "application/json" {
		return puzzle.New("http", string(data)), true
	}

	var in puzzle.Input
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid JSON: %s", err))
		return nil, false
	}
	if in.Source == "" {
		in.Source = "http"
	}
	in.EnsureID()
	return &in, true
}

// render buffers the formatted body so a formatter error can still become a 500.
func render(w http.ResponseWriter, f report.Formatter, status int, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
