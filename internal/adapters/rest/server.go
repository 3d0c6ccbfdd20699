package rest

import (
	"context"
	"net/http"

	core_port "analysis-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	propertyHandlers *PropertyHandler,
	analysisHandlers *AnalysisHandler,
	marketHandlers *MarketHandler,
	allowedOrigins []string,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// роуты каталога объектов
		r.Get("/properties", propertyHandlers.FindProperties)
		r.Get("/properties/{propertyID}", propertyHandlers.GetProperty)

		// роуты инвестиционного анализа
		r.Get("/analysis/{propertyID}", analysisHandlers.GetPropertyAnalysis)
		r.Post("/analysis/{propertyID}", analysisHandlers.PostPropertyAnalysis)

		// роуты рыночной аналитики
		r.Get("/markets/top", marketHandlers.GetTopMarkets)
		r.Post("/markets/compare", marketHandlers.CompareMarkets)
		r.Get("/markets/{marketID}/analysis", marketHandlers.GetMarketAnalysis)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
