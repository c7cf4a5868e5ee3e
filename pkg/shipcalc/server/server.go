package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/dal"
	"github.com/sirupsen/logrus"
)

// Quoter prices a shipping request
type Quoter interface {
	Quote(ctx context.Context, req dal.QuoteRequest) (dal.QuoteResult, error)
}

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(addr string, quoter Quoter, log logrus.FieldLogger) *http.Server {
	server := newHTTPServer(quoter, log)
	return &http.Server{
		Addr:              addr,
		Handler:           server.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type httpServer struct {
	log    logrus.FieldLogger
	quoter Quoter
}

func newHTTPServer(quoter Quoter, log logrus.FieldLogger) *httpServer {
	return &httpServer{
		log:    log,
		quoter: quoter,
	}
}

func (h *httpServer) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)
	r.HandleFunc("/api/calculate-shipping", h.CalculateShipping).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *httpServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request handled")
	})
}
