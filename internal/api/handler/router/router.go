// Package router monta o httprouter a partir de conjuntos de rotas
package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
)

// Route é uma rota com a cadeia de middlewares que só vale para ela
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []alice.Constructor
}

type Router struct {
	mux *httprouter.Router
}

type ConfigRouter func(router *Router)

// WithRoutes registra um conjunto de rotas
func WithRoutes(routes ...Route) ConfigRouter {
	return func(router *Router) {
		for _, route := range routes {
			router.mux.Handler(route.Method, route.Path, alice.New(route.Middlewares...).Then(route.Handler))
		}
	}
}

// WithNotFound define o handler das rotas desconhecidas
func WithNotFound(handler http.Handler) ConfigRouter {
	return func(router *Router) {
		router.mux.NotFound = handler
	}
}

func New(configs ...ConfigRouter) *Router {
	router := &Router{mux: httprouter.New()}

	for _, config := range configs {
		config(router)
	}

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
