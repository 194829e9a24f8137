package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/interfaces/httpapi"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

func NewHTTPServer(a *App) (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(usecase.NewTournamentQueryService(a.Tournaments), a.Sync, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger, a.Config.CORSAllowedOrigins, a.Config.InternalJobToken)

	return &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           router,
		ReadTimeout:       a.Config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		// A sync job request holds the connection for the whole pass.
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}
