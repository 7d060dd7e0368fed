package main

import (
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/api"
)

// setupRouter builds the HTTP handler from the application's services.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.Services{
		Set:  app.services,
		Auth: app.authService,
		JWT:  app.jwtService,
	}, app.logger)
}
