package web

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"github.com/vadiminshakov/chartbot/internal/services/chart"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

const (
	donationPollInterval = 2 * time.Second
	heartbeatInterval    = 30 * time.Second
	chartFetchTimeout    = 15 * time.Second
)

type donationReader interface {
	EventsAfter(index uint64) ([]domain.DonationEventRecord, error)
}

type candleSource interface {
	FetchTimeframe(ctx context.Context, symbol string, tf domain.Timeframe) (domain.CandleSeries, error)
}

// Server exposes the dashboard: coin index, interactive charts and the
// donation SSE stream.
type Server struct {
	Addr      string
	Donations donationReader
	Market    candleSource
	Coins     *domain.CoinCatalog

	logger       *zap.Logger
	pollInterval time.Duration
}

// NewServer creates a new web server instance. donations and market may be
// nil, the corresponding endpoints then answer 503.
func NewServer(addr string, donations donationReader, market candleSource, coins *domain.CoinCatalog, logger *zap.Logger) *Server {
	if coins == nil {
		coins = domain.DefaultCoinCatalog()
	}
	return &Server{
		Addr:         addr,
		Donations:    donations,
		Market:       market,
		Coins:        coins,
		logger:       logger,
		pollInterval: donationPollInterval,
	}
}

// Handler returns the dashboard routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/chart", s.handleChart)
	mux.HandleFunc("/donations/stream", s.handleDonationStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go s.shutdownOnDone(ctx, server)

	s.logger.Info("Dashboard listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "dashboard server")
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with ACME certificates plus a plain
// HTTP server on :80 answering HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if len(domains) == 0 {
		return errors.New("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go s.shutdownOnDone(ctx, httpSrv, httpsSrv)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("ACME challenge server failed", zap.Error(err))
		}
	}()

	s.logger.Info("Dashboard listening with TLS", zap.String("addr", s.Addr), zap.Strings("domains", domains))
	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "dashboard tls server")
	}
	return nil
}

func (s *Server) shutdownOnDone(ctx context.Context, servers ...*http.Server) {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("Dashboard shutdown error", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, s.Coins.Coins()); err != nil {
		s.logger.Warn("Failed to render index", zap.Error(err))
	}
}

// handleChart serves /chart?symbol=BTCUSDT&tf=1h with an optional &ema=50 overlay.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if s.Market == nil {
		http.Error(w, "market data not available", http.StatusServiceUnavailable)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	coin, ok := s.Coins.BySymbol(symbol)
	if !ok {
		http.Error(w, "unknown symbol", http.StatusNotFound)
		return
	}

	tfParam := r.URL.Query().Get("tf")
	if tfParam == "" {
		tfParam = string(domain.TimeframeHour)
	}
	tf, err := domain.ParseTimeframe(tfParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var options []chart.HTMLOption
	if emaParam := r.URL.Query().Get("ema"); emaParam != "" {
		period, err := strconv.Atoi(emaParam)
		if err != nil || period < 1 || period > chart.MaxEMAPeriod {
			http.Error(w, fmt.Sprintf("ema must be between 1 and %d", chart.MaxEMAPeriod), http.StatusBadRequest)
			return
		}
		options = append(options, chart.WithEMA(period))
	}

	ctx, cancel := context.WithTimeout(r.Context(), chartFetchTimeout)
	defer cancel()

	series, err := s.Market.FetchTimeframe(ctx, coin.Symbol, tf)
	if err != nil {
		s.logger.Warn("Chart data fetch failed", zap.String("symbol", coin.Symbol), zap.String("timeframe", string(tf)), zap.Error(err))
		http.Error(w, "failed to load candles", http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderHTML(&buf, series, coin.DisplayName, tf.Label(), options...); err != nil {
		s.logger.Warn("Chart render failed", zap.String("symbol", coin.Symbol), zap.Error(err))
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// publicDonation is the part of a donation safe to show on a public page.
type publicDonation struct {
	Timestamp time.Time `json:"ts"`
	Stars     int       `json:"stars"`
	Verified  bool      `json:"verified"`
}

func newPublicDonation(ev domain.DonationEvent) publicDonation {
	return publicDonation{Timestamp: ev.Timestamp, Stars: ev.Stars, Verified: ev.Verified}
}

func (s *Server) handleDonationStream(w http.ResponseWriter, r *http.Request) {
	if s.Donations == nil {
		http.Error(w, "donation journal not available", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	lastIndex := s.parseLastEventID(r.Header.Get("Last-Event-ID"), r.URL.Query().Get("last_event_id"))

	sendDonations := func() error {
		records, err := s.Donations.EventsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(newPublicDonation(record.Event))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\n", record.Index)
			fmt.Fprintf(w, "event: donation\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			lastIndex = record.Index
		}
		if len(records) > 0 {
			flusher.Flush()
		}
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if err := sendDonations(); err != nil {
		s.logger.Error("Donation stream initial load failed", zap.Error(err))
		http.Error(w, "failed to load donations", http.StatusInternalServerError)
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(s.pollInterval)
	defer pollTicker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendDonations(); err != nil {
				s.logger.Warn("Donation stream poll failed", zap.Error(err))
			}
		}
	}
}

// parseLastEventID prefers the Last-Event-ID header; the query parameter lets
// a client resume manually.
func (s *Server) parseLastEventID(headerVal, queryVal string) uint64 {
	idStr := strings.TrimSpace(headerVal)
	if idStr == "" {
		idStr = strings.TrimSpace(queryVal)
	}
	if idStr == "" {
		return 0
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		s.logger.Debug("Invalid last event id", zap.String("value", idStr), zap.Error(err))
		return 0
	}
	return id
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Chart Bot</title>
  <style>
    body { font-family: 'Space Mono', monospace; margin: 2rem; color: #111; }
    ul { columns: 3; list-style: none; padding: 0; }
    li { margin: .3rem 0; }
    a { color: #111; }
    #donations { border: 2px solid #111; padding: 1rem; margin-top: 2rem; max-height: 20rem; overflow-y: auto; }
  </style>
</head>
<body>
  <h1>Crypto charts</h1>
  <ul>
  {{- range .}}
    <li>{{.Label}}: <a href="/chart?symbol={{.Symbol}}&tf=1h">1h</a> <a href="/chart?symbol={{.Symbol}}&tf=1w">1w</a> <a href="/chart?symbol={{.Symbol}}&tf=1m">1m</a></li>
  {{- end}}
  </ul>
  <div id="donations"><strong>Donations</strong></div>
  <script>
    const box = document.getElementById('donations');
    const stream = new EventSource('/donations/stream');
    stream.addEventListener('donation', (e) => {
      const d = JSON.parse(e.data);
      const row = document.createElement('div');
      row.textContent = new Date(d.ts).toLocaleString() + ': ' + d.stars + ' stars' + (d.verified ? '' : ' (unverified)');
      box.appendChild(row);
    });
  </script>
</body>
</html>
`))
