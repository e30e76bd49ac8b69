package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atharvakonge/portfolio-admin/internal/models"
	"github.com/atharvakonge/portfolio-admin/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// FuncMap exposes the view formatters to the templates
var FuncMap = template.FuncMap{
	"rupees":        views.Rupees,
	"rupeesOrDash":  views.RupeesOrDash,
	"crores":        views.Crores,
	"quantity":      views.Quantity,
	"price":         views.Price,
	"count":         views.Count,
	"date":          views.Date,
	"dateTime":      views.DateTime,
	"ago":           views.Ago,
	"totalValue":    views.TotalValue,
	"sortLink":      views.SortLink,
	"sortIndicator": views.SortIndicator,
	"titleOr":       models.TitleOr,
	"typeLabel": func(t string) string {
		return strings.ReplaceAll(t, "_", " ")
	},
	"pathEscape": url.PathEscape,
	"derefOr": func(s *string, fallback string) string {
		if s == nil || *s == "" {
			return fallback
		}
		return *s
	},
	"add":          func(a, b int) int { return a + b },
	"holdingTypes": func() []string { return views.HoldingTypes },
	"hourLabel":    views.HourLabel,
}

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html")
}

// Load installs the templates and static assets on r
func Load(r *gin.Engine) error {
	t, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(t)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	r.StaticFS("/static", http.FS(static))
	return nil
}
