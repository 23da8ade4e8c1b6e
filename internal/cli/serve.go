package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/VirgileHenry/nahiri"
	"github.com/VirgileHenry/nahiri/codec"
	"github.com/VirgileHenry/nahiri/observability"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve queries over HTTP",
		Long: `Build the index and serve it over HTTP.

Endpoints:
  GET /neighbors?key=<key>&k=<n>
  GET /closest?vector=<json array>&k=<n>
  GET /metrics

Examples:
  nahiri serve --data points.jsonl --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.codec()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewPrometheusCollector(func(o *observability.Options) {
				o.Registerer = reg
			})

			db, err := a.open(cmd, nahiri.WithMetricsCollector(metrics))
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "serving %d points on %s\n", db.Len(), ln.Addr())

			return serve(cmd.Context(), ln, newHandler(db, c, reg))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}

// serve runs the HTTP server on ln until ctx is done.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type handler struct {
	db    *nahiri.DB[string, Record]
	codec codec.Codec
}

type response struct {
	Results []Record `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newHandler(db *nahiri.DB[string, Record], c codec.Codec, gatherer prometheus.Gatherer) http.Handler {
	h := &handler{db: db, codec: c}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /neighbors", h.neighbors)
	mux.HandleFunc("GET /closest", h.closest)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

func (h *handler) limit(r *http.Request) (int, error) {
	s := r.URL.Query().Get("k")
	if s == "" {
		return DefaultLimit, nil
	}
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid k %q", s)
	}
	return k, nil
}

func (h *handler) neighbors(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		h.fail(w, http.StatusBadRequest, errors.New("missing key"))
		return
	}

	k, err := h.limit(r)
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}

	records, ok := h.db.Neighbors(r.Context(), key, k, nil)
	if !ok {
		h.fail(w, http.StatusNotFound, fmt.Errorf("key %q not found", key))
		return
	}

	h.write(w, http.StatusOK, response{Results: records})
}

func (h *handler) closest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("vector")
	if raw == "" {
		h.fail(w, http.StatusBadRequest, errors.New("missing vector"))
		return
	}

	k, err := h.limit(r)
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}

	v, err := h.db.Flat().Space().Decode(h.codec, []byte(raw))
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}

	records, err := h.db.Closest(r.Context(), v.Values(), k, nil)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}

	h.write(w, http.StatusOK, response{Results: records})
}

func (h *handler) fail(w http.ResponseWriter, status int, err error) {
	h.write(w, status, errorResponse{Error: err.Error()})
}

func (h *handler) write(w http.ResponseWriter, status int, v any) {
	b, err := h.codec.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
