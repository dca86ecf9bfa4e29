package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/internal/theme"
	"github.com/vfg2006/painel-operadoras/pkg/log"
	"github.com/vfg2006/painel-operadoras/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome       = "home"
	pageDashboard  = "dashboard"
	pageOperators  = "operadoras"
	pageOperator   = "operadora"
	loadingRefresh = 1
)

var pageFiles = []string{pageHome, pageDashboard, pageOperators, pageOperator}

var templateFuncs = template.FuncMap{
	"brl":     utils.FormatBRL,
	"number":  utils.FormatNumber,
	"pct":     utils.Percent,
	"quarter": quarterLabel,
	"cnpj":    formatCNPJ,
}

func quarterLabel(q int) string {
	if q == domain.AllValues {
		return "Todos"
	}
	return fmt.Sprintf("T%d", q)
}

func formatCNPJ(raw string) string {
	return domain.CNPJ(raw).Formatted()
}

// PageData é o que o layout recebe; Content vai para o bloco "content" da página
type PageData struct {
	Title   string
	Active  string
	Theme   theme.Theme
	Refresh int
	Content any
}

// Renderer guarda um conjunto de templates por página, todos com o mesmo layout
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))

	for _, name := range pageFiles {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/loading.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao carregar template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render executa a página inteira antes de escrever, para não enviar HTML pela metade
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	t, ok := rd.pages[page]
	if !ok {
		log.ForContext(r.Context()).WithField("path", r.URL.Path).Errorf("Template desconhecido: %s", page)
		http.Error(w, "Erro interno no servidor", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao renderizar página")
		http.Error(w, "Erro interno no servidor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("Erro ao enviar página")
	}
}
