package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/goliatone/go-docsite/internal/doctree"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

//go:embed templates/*
var templateFS embed.FS

// documentPage is the data a single rendered page needs.
type documentPage struct {
	Node        *doctree.Node
	HTML        []byte
	TOC         []interfaces.TocEntry
	Nav         []interfaces.NavItem
	Breadcrumbs []interfaces.Breadcrumb
	Prev        *documentRef
	Next        *documentRef
	CurrentPath string
	BasePrefix  string
}

type siteData struct {
	Title         string
	Description   string
	LogoURL       string
	FaviconURL    string
	CopyrightText string
	FooterLinks   []runtimeconfig.FooterLink
	EnableSearch  bool
	LineNumbers   bool
	SyntaxTheme   string
	ExtraCSS      []string
	ExtraJS       []string
}

type pageData struct {
	Site        siteData
	Title       string
	Description string
	Content     template.HTML
	Styles      template.CSS
	TOC         []interfaces.TocEntry
	Nav         []interfaces.NavItem
	Breadcrumbs []interfaces.Breadcrumb
	Prev        *documentRef
	Next        *documentRef
	CurrentPath string
	BasePrefix  string
	NotFound    bool
}

// navContext feeds the recursive sidebar template.
type navContext struct {
	BasePrefix  string
	CurrentPath string
	Items       []interfaces.NavItem
}

type pageRenderer struct {
	tmpl   *template.Template
	site   siteData
	styles template.CSS
}

func newPageRenderer(cfg runtimeconfig.Config) (*pageRenderer, error) {
	funcs := template.FuncMap{
		"docURL": func(base, path string) string {
			if path == "" || path == "index" {
				return base
			}
			return base + path
		},
		"navctx": func(base, current string, items []interfaces.NavItem) navContext {
			return navContext{BasePrefix: base, CurrentPath: current, Items: items}
		},
	}

	tmpl, err := template.New("document.html").Funcs(funcs).ParseFS(templateFS, "templates/document.html")
	if err != nil {
		return nil, fmt.Errorf("docsite http: parse templates: %w", err)
	}

	styles, err := templateFS.ReadFile("templates/styles.css")
	if err != nil {
		return nil, fmt.Errorf("docsite http: read styles: %w", err)
	}

	return &pageRenderer{
		tmpl: tmpl,
		site: siteData{
			Title:         cfg.Title,
			Description:   cfg.Description,
			LogoURL:       cfg.LogoURL,
			FaviconURL:    cfg.FaviconURL,
			CopyrightText: cfg.CopyrightText,
			FooterLinks:   cfg.FooterLinks,
			EnableSearch:  cfg.EnableSearch,
			LineNumbers:   cfg.LineNumbers,
			SyntaxTheme:   cfg.SyntaxTheme,
			ExtraCSS:      cfg.ExtraCSS,
			ExtraJS:       cfg.ExtraJS,
		},
		styles: template.CSS(styles),
	}, nil
}

func (p *pageRenderer) renderDocument(w http.ResponseWriter, page documentPage) {
	data := pageData{
		Site:        p.site,
		Title:       page.Node.Metadata.Title,
		Description: page.Node.Metadata.Description,
		Content:     template.HTML(page.HTML),
		Styles:      p.styles,
		TOC:         page.TOC,
		Nav:         page.Nav,
		Breadcrumbs: page.Breadcrumbs,
		Prev:        page.Prev,
		Next:        page.Next,
		CurrentPath: page.CurrentPath,
		BasePrefix:  page.BasePrefix,
	}
	p.execute(w, http.StatusOK, data)
}

func (p *pageRenderer) renderNotFound(w http.ResponseWriter, basePrefix string) {
	data := pageData{
		Site:       p.site,
		Title:      "Page Not Found",
		Content:    template.HTML("<h1>Page Not Found</h1><p>The document you requested does not exist.</p>"),
		Styles:     p.styles,
		BasePrefix: basePrefix,
		NotFound:   true,
	}
	p.execute(w, http.StatusNotFound, data)
}

func (p *pageRenderer) execute(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = p.tmpl.Execute(w, data)
}
