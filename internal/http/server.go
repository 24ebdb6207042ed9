package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"lupa/internal/log"
	"lupa/internal/metrics"
	"lupa/internal/middleware/ratelimit"
	"lupa/internal/middleware/security"
	"lupa/internal/middleware/trace"
	"lupa/internal/services"
)

type Server struct {
	http.Server
	ledger    *services.LedgerService
	dashboard *services.DashboardService
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	logger    *log.Logger

	shutdownOnce sync.Once
}

type serverOptions struct {
	rateLimit      int
	logger         *log.Logger
	trustedProxies []string
}

type Option func(*serverOptions)

// WithRateLimit sets the per-client requests per minute on /api.
func WithRateLimit(perMinute int) Option {
	return func(o *serverOptions) { o.rateLimit = perMinute }
}

func WithLogger(logger *log.Logger) Option {
	return func(o *serverOptions) { o.logger = logger }
}

// WithTrustedProxies adds CIDRs whose forwarding headers are believed.
func WithTrustedProxies(cidrs ...string) Option {
	return func(o *serverOptions) { o.trustedProxies = append(o.trustedProxies, cidrs...) }
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, dashboard *services.DashboardService, opts ...Option) *Server {
	o := serverOptions{rateLimit: ratelimit.DefaultConfig().RequestsPerMinute}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		cfg := log.DefaultConfig()
		cfg.Component = log.ComponentHTTP
		o.logger = log.New(cfg)
	}

	s := &Server{
		ledger:    ledger,
		dashboard: dashboard,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: o.rateLimit}),
		detector:  security.NewDetector(o.logger.Logger),
		logger:    o.logger,
	}
	for _, cidr := range o.trustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			o.logger.Warn("Ignoring invalid trusted proxy", "cidr", cidr, "error", err)
		}
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// middleware runs inside the router so handlers and the trace see the
// matched route.
func (s *Server) middleware() []mux.MiddlewareFunc {
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP, s.logger.Logger)
	return []mux.MiddlewareFunc{
		headers.Middleware,
		s.detector.Middleware,
		tracer.Middleware,
		log.Middleware(s.logger),
		log.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) }),
	}
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	chain := s.middleware()
	r.Use(chain...)

	// Unmatched requests skip router middleware, so they get the chain here.
	r.NotFoundHandler = wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("route not found").Write(w)
	}), chain)
	r.MethodNotAllowedHandler = wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		MethodNotAllowedError().Write(w)
	}), chain)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		TooManyRequestsError().Write(w)
	}))

	api.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", s.handleGetTransaction).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}", s.handleUpdateTransaction).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/transactions/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	api.HandleFunc("/payment-methods", s.handleListPaymentMethods).Methods(http.MethodGet)
	api.HandleFunc("/payment-methods", s.handleCreatePaymentMethod).Methods(http.MethodPost)
	api.HandleFunc("/payment-methods/{id}", s.handleUpdatePaymentMethod).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/payment-methods/{id}", s.handleDeletePaymentMethod).Methods(http.MethodDelete)

	api.HandleFunc("/fee-preview", s.handleFeePreview).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)

	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/monthly", s.handleMonthlySeries).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/daily", s.handleDailySeries).Methods(http.MethodGet)

	// summary before {id}
	api.HandleFunc("/bills/summary", s.handleBillSummary).Methods(http.MethodGet)
	api.HandleFunc("/bills", s.handleListBills).Methods(http.MethodGet)
	api.HandleFunc("/bills", s.handleCreateBill).Methods(http.MethodPost)
	api.HandleFunc("/bills/{id}", s.handleGetBill).Methods(http.MethodGet)
	api.HandleFunc("/bills/{id}", s.handleUpdateBill).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/bills/{id}", s.handleDeleteBill).Methods(http.MethodDelete)
	api.HandleFunc("/bills/{id}/pay", s.handlePayBill).Methods(http.MethodPost)

	api.HandleFunc("/receivables/summary", s.handleReceivableSummary).Methods(http.MethodGet)
	api.HandleFunc("/receivables", s.handleListReceivables).Methods(http.MethodGet)
	api.HandleFunc("/receivables", s.handleCreateReceivable).Methods(http.MethodPost)
	api.HandleFunc("/receivables/{id}", s.handleGetReceivable).Methods(http.MethodGet)
	api.HandleFunc("/receivables/{id}", s.handleUpdateReceivable).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/receivables/{id}", s.handleDeleteReceivable).Methods(http.MethodDelete)
	api.HandleFunc("/receivables/{id}/payments", s.handleAddReceivablePayment).Methods(http.MethodPost)

	api.HandleFunc("/customers", s.handleListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", s.handleCreateCustomer).Methods(http.MethodPost)

	api.HandleFunc("/data", s.handleResetData).Methods(http.MethodDelete)

	return r
}

func wrap(h http.Handler, chain []mux.MiddlewareFunc) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// Shutdown stops the limiter's cleanup goroutine and drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.ledger.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
		ErrorResponse(http.StatusServiceUnavailable, "storage not ready", "").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
