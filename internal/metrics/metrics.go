// Package metrics exposes animation and asset counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-globe/internal/logging"
)

const namespace = "lsglobe"

// Recorder collects frame, resize and texture-load metrics. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	frames       prometheus.Counter
	renderTime   prometheus.Histogram
	renderErrors prometheus.Counter
	resizes      prometheus.Counter
	textures     *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Animation cycles completed",
		}),
		renderTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rasterizing one frame",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		renderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Frames the renderer rejected",
		}),
		resizes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resizes_total",
			Help:      "Viewport size changes applied",
		}),
		textures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "texture_loads_total",
			Help:      "Texture loads by outcome",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{r.frames, r.renderTime, r.renderErrors, r.resizes, r.textures} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// FrameRendered records one completed cycle and how long its render took.
func (r *Recorder) FrameRendered(d time.Duration, err error) {
	if r == nil {
		return
	}
	r.frames.Inc()
	r.renderTime.Observe(d.Seconds())
	if err != nil {
		r.renderErrors.Inc()
	}
}

// Resized records an applied viewport resize.
func (r *Recorder) Resized() {
	if r == nil {
		return
	}
	r.resizes.Inc()
}

// TextureLoaded records a finished texture load.
func (r *Recorder) TextureLoaded(ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	r.textures.WithLabelValues(result).Inc()
}

// Serve exposes the registry at /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, log *logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	}
}
