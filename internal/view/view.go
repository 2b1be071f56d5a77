// Package view holds the server-rendered pages. Templates are embedded so the
// binary has no runtime file dependencies.
package view

import (
	"embed"
	"html/template"
)

// Page names accepted by gin's c.HTML.
const (
	PageLogin    = "login.html"
	PageRegister = "register.html"
	PageDoctor   = "doctor.html"
	PagePatient  = "patient.html"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"contains": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
}

// Templates parses every embedded page.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
