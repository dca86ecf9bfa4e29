package handler

import (
	"net/http"
	"net/url"

	"github.com/vfg2006/painel-operadoras/pkg/log"
)

// ToggleTheme alterna o tema e volta para a página de origem
func ToggleTheme(themeProvider ThemeProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applied, err := themeProvider.Toggle()
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao salvar tema")
		} else {
			log.ForContext(r.Context()).Debugf("Tema alterado para %s", applied)
		}

		http.Redirect(w, r, backTarget(r), http.StatusSeeOther)
	}
}

// backTarget devolve o caminho do Referer quando ele é do próprio painel
func backTarget(r *http.Request) string {
	referer, err := url.Parse(r.Referer())
	if err != nil || referer.Path == "" || (referer.Host != "" && referer.Host != r.Host) {
		return "/"
	}
	return referer.RequestURI()
}
