package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/apexmarkets/fx-terminal/internal/engine"
	"github.com/apexmarkets/fx-terminal/internal/instruments"
	"github.com/apexmarkets/fx-terminal/internal/logger"
	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/bytedance/sonic"
)

// HTTPServer exposes the derived engine state as JSON, the presentation
// surface for whatever front end sits on top. Trading stays with the engine
// callers; the only mutations served here touch local state (watchlist
// stars, cache refresh).
type HTTPServer struct {
	s      *http.Server
	engine *engine.Engine
	set    *instruments.Set
	logger logger.Logger
}

func NewHTTPServer(ctx context.Context, port string, eng *engine.Engine, set *instruments.Set, logger logger.Logger) *HTTPServer {
	srv := &HTTPServer{
		engine: eng,
		set:    set,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /snapshot", srv.handleSnapshot)
	mux.HandleFunc("GET /instruments", srv.handleInstruments)
	mux.HandleFunc("GET /positions", srv.handlePositions)
	mux.HandleFunc("GET /orders", srv.handleOrders)
	mux.HandleFunc("GET /history", srv.handleHistory)
	mux.HandleFunc("POST /refresh", srv.handleRefresh)
	mux.HandleFunc("POST /instruments/{symbol}/star", srv.handleStar)

	srv.s = &http.Server{
		Handler:           mux,
		Addr:              ":" + port,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}
	return srv
}

func (s *HTTPServer) Start() error {
	return s.s.ListenAndServe()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.s.Shutdown(ctx)
}

func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error)
	go func() {
		errCh <- s.Start()
	}()
	select {
	case <-ctx.Done():
		return s.Shutdown(ctx)
	case err := <-errCh:
		return err
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		s.logger.Errorf("%s: can't marshal response", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		s.logger.Debugf("%s: can't write response", err)
	}
}

type snapshotResponse struct {
	Account   any              `json:"account,omitempty"`
	Valuation engine.Valuation `json:"valuation"`
	Positions int              `json:"openPositions"`
}

func (s *HTTPServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	resp := snapshotResponse{
		Valuation: s.engine.Snapshot(),
		Positions: len(s.engine.Positions()),
	}
	if acct, ok := s.engine.SelectedAccount(); ok {
		resp.Account = acct
	}
	s.writeJSON(w, resp)
}

type instrumentView struct {
	model.Instrument
	BidDisplay    string `json:"bidDisplay"`
	AskDisplay    string `json:"askDisplay"`
	SpreadDisplay string `json:"spreadDisplay"`
}

func (s *HTTPServer) handleInstruments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list := s.set.Filter(q.Get("q"), q.Get("category"))
	views := make([]instrumentView, 0, len(list))
	for _, inst := range list {
		views = append(views, instrumentView{
			Instrument:    inst,
			BidDisplay:    instruments.FormatPrice(inst.Bid),
			AskDisplay:    instruments.FormatPrice(inst.Ask),
			SpreadDisplay: instruments.FormatSpread(inst),
		})
	}
	s.writeJSON(w, views)
}

func (s *HTTPServer) handleStar(w http.ResponseWriter, r *http.Request) {
	starred := true
	if v := r.URL.Query().Get("starred"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "bad starred value", http.StatusBadRequest)
			return
		}
		starred = b
	}
	if !s.set.Star(r.PathValue("symbol"), starred) {
		http.Error(w, "unknown symbol", http.StatusNotFound)
		return
	}
	s.writeJSON(w, model.StatusResponse{Success: true})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Refresh(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.writeJSON(w, model.StatusResponse{Success: true})
}

func (s *HTTPServer) handlePositions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.engine.Positions())
}

func (s *HTTPServer) handleOrders(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.engine.PendingOrders())
}

func (s *HTTPServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.engine.History())
}
