package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/document"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/eventbus"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/events"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/reqid"
	"go.uber.org/zap"
)

// Handler is an http.Handler that turns documents into normalized ASTs.
type Handler struct {
	parser *document.Parser
	logger *zap.Logger
	opt    Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions

	Logger *zap.Logger
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}
func WithLogger(l *zap.Logger) Option { return func(o *Options) { o.Logger = l } }

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

// New creates a handler serving parser.
func New(parser *document.Parser, opts ...Option) (*Handler, error) {
	if parser == nil {
		return nil, errors.New("server: nil parser")
	}
	op := Options{Timeout: 10 * time.Second, Logger: zap.NewNop()}
	for _, f := range opts {
		f(&op)
	}
	return &Handler{parser: parser, logger: op.Logger, opt: op}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	ctx, rid := reqid.NewContext(ctx)
	w.Header().Set("X-Request-Id", strconv.FormatInt(rid, 10))
	status := http.StatusOK
	documents := 0
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	defer func() {
		elapsed := time.Since(start)
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Status: status, Documents: documents, Duration: elapsed})
		h.logger.Debug("request",
			zap.Int64("request_id", rid),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("documents", documents),
			zap.Duration("duration", elapsed),
		)
	}()

	if r.Method == http.MethodOptions {
		if len(h.opt.CORS.AllowedOrigins) > 0 {
			setCORSHeaders(w, r, h.opt.CORS)
		}
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		status = http.StatusMethodNotAllowed
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeJSON(w, status, parseResult{Error: "method not allowed"}, h.opt.Pretty)
		return
	}

	req, batch, err := parseRequest(r, h.opt.MaxBodyBytes)
	if err != nil {
		status = http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, parseResult{Error: err.Error()}, h.opt.Pretty)
		return
	}

	if len(h.opt.CORS.AllowedOrigins) > 0 {
		setCORSHeaders(w, r, h.opt.CORS)
	}

	if batch != nil {
		out := make([]parseResult, len(batch))
		for i := range batch {
			res, code := h.parseOne(ctx, batch[i])
			out[i] = res
			documents++
			if code > status {
				status = code
			}
		}
		writeJSON(w, status, out, h.opt.Pretty)
		return
	}

	res, code := h.parseOne(ctx, req)
	documents = 1
	status = code
	writeJSON(w, status, res, h.opt.Pretty)
}

// parseOne parses a single document. Failure sentinels are reported with
// 200, matching the in-process contract; only literal decode defects and
// expired deadlines produce error statuses.
func (h *Handler) parseOne(ctx context.Context, req ParseRequest) (parseResult, int) {
	if err := ctx.Err(); err != nil {
		return parseResult{Error: err.Error()}, http.StatusServiceUnavailable
	}
	ast, err := h.parser.Parse(ctx, *req.Document)
	if err != nil {
		return parseResult{Error: err.Error()}, http.StatusInternalServerError
	}
	if s, ok := ast.(string); ok && document.IsFailure(s) {
		return parseResult{Error: s}, http.StatusOK
	}
	return parseResult{AST: ast}, http.StatusOK
}

// ------------------ Request parsing ------------------

// ParseRequest carries one document. Document is a pointer so that an empty
// document, which is valid input, can be told apart from a missing one.
type ParseRequest struct {
	Document *string `json:"document"`
}

var (
	errBodyTooLarge = errors.New("body too large")
	errMissingDoc   = errors.New("missing 'document'")
	errInvalidJSON  = errors.New("invalid JSON")
)

func parseRequest(r *http.Request, maxBody int64) (ParseRequest, []ParseRequest, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		if !q.Has("document") {
			return ParseRequest{}, nil, errMissingDoc
		}
		doc := q.Get("document")
		return ParseRequest{Document: &doc}, nil, nil
	}

	// POST
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && !strings.HasPrefix(ct, "application/json;") {
		return ParseRequest{}, nil, fmt.Errorf("unsupported Content-Type %q", ct)
	}
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return ParseRequest{}, nil, errors.New("failed to read body")
	}
	defer r.Body.Close()
	if maxBody > 0 && int64(len(body)) > maxBody {
		return ParseRequest{}, nil, errBodyTooLarge
	}

	// Try array (batch)
	if len(body) > 0 && body[0] == '[' {
		var arr []ParseRequest
		if err := json.Unmarshal(body, &arr); err != nil {
			return ParseRequest{}, nil, errInvalidJSON
		}
		if len(arr) == 0 {
			return ParseRequest{}, nil, errors.New("empty batch")
		}
		for i := range arr {
			if arr[i].Document == nil {
				return ParseRequest{}, nil, fmt.Errorf("batch item %d: %w", i, errMissingDoc)
			}
		}
		return ParseRequest{}, arr, nil
	}
	// Single
	var req ParseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return ParseRequest{}, nil, errInvalidJSON
	}
	if req.Document == nil {
		return ParseRequest{}, nil, errMissingDoc
	}
	return req, nil, nil
}

// ------------------ Response formatting ------------------

type parseResult struct {
	AST   any    `json:"ast,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func setCORSHeaders(w http.ResponseWriter, r *http.Request, opts CORSOptions) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	wildcard := contains(opts.AllowedOrigins, "*")
	if !wildcard && !contains(opts.AllowedOrigins, origin) {
		return
	}
	if wildcard {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id")
	if r.Method == http.MethodOptions {
		if hdr := r.Header.Get("Access-Control-Request-Headers"); hdr != "" {
			w.Header().Set("Access-Control-Allow-Headers", hdr)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
