package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vfg2006/painel-operadoras/pkg/apiErrors"
	"github.com/vfg2006/painel-operadoras/pkg/log"
)

const bearerPrefix = "Bearer "

// AdminToken libera a rota apenas para quem envia "Authorization: Bearer <token>"
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				apiErrors.WriteError(w, apiErrors.ErrUnauthorized, "Token de administração ausente", nil)
				return
			}

			given := strings.TrimPrefix(header, bearerPrefix)
			if token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Warn("Token de administração inválido")
				apiErrors.WriteError(w, apiErrors.ErrUnauthorized, "Token de administração inválido", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
