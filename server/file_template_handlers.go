package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}

type pageTemplates struct {
	login  *template.Template
	portal *template.Template
}

func parsePageTemplates() (*pageTemplates, error) {
	login, err := ParseTemplate("login.html")
	if err != nil {
		return nil, fmt.Errorf("[server parsePageTemplates] login: %w", err)
	}
	portal, err := ParseTemplate("portal.html")
	if err != nil {
		return nil, fmt.Errorf("[server parsePageTemplates] portal: %w", err)
	}
	return &pageTemplates{login: login, portal: portal}, nil
}

func render(w http.ResponseWriter, tmpl *template.Template, status int, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
	}
}
