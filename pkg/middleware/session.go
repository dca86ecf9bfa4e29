package middleware

import (
	"net/http"
	"strings"

	"github.com/vfg2006/painel-operadoras/internal/session"
	"github.com/vfg2006/painel-operadoras/pkg/log"
)

// statelessPrefixes são rotas que não usam sessão de navegação
var statelessPrefixes = []string{"/healthcheck", "/metrics", "/v1/", "/static/"}

// SessionMiddleware associa a requisição a uma sessão de navegação e renova o cookie
func SessionMiddleware(manager *session.Manager, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range statelessPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			var token string
			if cookie, err := r.Cookie(session.CookieName); err == nil {
				token = cookie.Value
			}

			s, newToken, err := manager.Resolve(token)
			if err != nil {
				log.ForContext(r.Context()).WithError(err).Error("Erro ao criar sessão")
				http.Error(w, "Erro interno no servidor", http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     session.CookieName,
				Value:    newToken,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(manager.TTL().Seconds()),
			})

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}
