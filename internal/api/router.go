package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "shortlink/internal/api/context"
	"shortlink/internal/api/handlers"
	"shortlink/internal/api/middleware"
)

type Dependencies struct {
	HealthHandler   *handlers.HealthHandler
	AuthHandler     *handlers.AuthHandler
	LinkHandler     *handlers.LinkHandler
	RedirectHandler *handlers.RedirectHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	authMid := deps.AuthMiddleware

	router.GET("/", wrap(deps.HealthHandler.Check))

	router.POST("/links/register", wrap(deps.AuthHandler.Register))
	router.POST("/links/login", wrap(deps.AuthHandler.Login))
	router.POST("/links/shorten", chain(deps.LinkHandler.Shorten, authMid.HandleOptional))

	// httprouter cannot register static siblings next to a wildcard, so the
	// :short_code routes dispatch the reserved path words themselves. Those
	// words are rejected by the code allocator and can never be real codes.
	router.GET("/links/:short_code", wrap(func(w http.ResponseWriter, r *http.Request) {
		switch paramValue(r, "short_code") {
		case "search":
			deps.LinkHandler.Search(w, r)
		case "my_links":
			authMid.Handle(deps.LinkHandler.ListMine)(w, r)
		default:
			deps.RedirectHandler.Handle(w, r)
		}
	}))
	router.DELETE("/links/:short_code", wrap(func(w http.ResponseWriter, r *http.Request) {
		if paramValue(r, "short_code") == "my_links" {
			authMid.Handle(deps.LinkHandler.DeleteAllMine)(w, r)
			return
		}
		authMid.Handle(deps.LinkHandler.Delete)(w, r)
	}))

	router.GET("/links/:short_code/stats", chain(deps.LinkHandler.Stats, authMid.Handle))
	router.GET("/links/:short_code/qr", wrap(deps.LinkHandler.QRCode))
	router.PUT("/links/:short_code", chain(deps.LinkHandler.Regenerate, authMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func paramValue(r *http.Request, name string) string {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return params.ByName(name)
}
