// internal/handler/page_handler.go
package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vanhieuhoaiphu/currency-converter/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	indexTemplate = "index.html"
	wsPath        = "/ws"
)

// LoadTemplates parses the embedded page templates.
func LoadTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

type PageHandler struct {
	service *service.ExchangeService
}

func NewPageHandler(service *service.ExchangeService) *PageHandler {
	return &PageHandler{service: service}
}

// Index renders the converter form, or the loader while prices are loading.
func (h *PageHandler) Index(c *gin.Context) {
	prices := h.service.Prices()
	c.HTML(http.StatusOK, indexTemplate, gin.H{
		"Title":   "Currency Converter",
		"Loading": prices.Loading,
		"Prices":  prices.Prices,
		"WSPath":  wsPath,
	})
}
