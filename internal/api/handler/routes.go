package handler

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/vfg2006/painel-operadoras/internal/api/handler/router"
	"github.com/vfg2006/painel-operadoras/internal/views"
	"github.com/vfg2006/painel-operadoras/pkg/metrics"
	"github.com/vfg2006/painel-operadoras/pkg/middleware"
)

func Healthcheck(reporter HealthReporter, sessions SessionCounter) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(reporter, sessions),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}

func PageRoutes(pages *Pages) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: pages.Home(),
		},
		{
			Path:    "/dashboard",
			Method:  http.MethodGet,
			Handler: pages.Dashboard(),
		},
		{
			Path:    "/operadoras",
			Method:  http.MethodGet,
			Handler: pages.Operators(),
		},
		{
			Path:    "/operadoras/:cnpj",
			Method:  http.MethodGet,
			Handler: pages.Operator(),
		},
	}
}

func Theme(themeProvider ThemeProvider) []router.Route {
	return []router.Route{
		{
			Path:    "/tema",
			Method:  http.MethodPost,
			Handler: ToggleTheme(themeProvider),
		},
	}
}

// API são as rotas JSON. Cada requisição usa uma tela nova, fora de qualquer sessão.
func API(factory *views.Factory) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: DashboardJSON(factory),
		},
		{
			Path:    "/v1/operadoras",
			Method:  http.MethodGet,
			Handler: OperatorsJSON(factory),
		},
		{
			Path:    "/v1/operadoras/:cnpj",
			Method:  http.MethodGet,
			Handler: OperatorJSON(factory),
		},
	}
}

// CronJobs exige o token de administração em todas as rotas
func CronJobs(services CronJobServices, adminToken string) []router.Route {
	admin := []alice.Constructor{middleware.AdminToken(adminToken)}

	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: admin,
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: admin,
		},
	}
}
