package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"
	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

//go:embed templates
var templates embed.FS

// Views lists every page template by the name handlers render it under.
var Views = []string{
	"posts/index.html",
	"posts/group_list.html",
	"posts/profile.html",
	"posts/post_detail.html",
	"posts/create_post.html",
	"posts/follow.html",
	"users/login.html",
	"users/signup.html",
	"users/logged_out.html",
	"core/404.html",
	"core/error.html",
}

// MediaURL is the URL prefix blobs are served under.
const MediaURL = "/media/"

// FuncMap is shared by every view.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"gt": func(a, b int) bool {
			return a > b
		},
		"date": func(t time.Time) string {
			return t.Format("2 Jan 2006 15:04")
		},
		"excerpt": utils.Excerpt,
		"linebreaks": func(s string) template.HTML {
			escaped := template.HTMLEscapeString(s)
			return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
		},
		"media": func(key string) string {
			return MediaURL + key
		},
	}
}

// LoadTemplates assembles every view with the shared layouts and
// includes. Each entry executes the base layout.
func LoadTemplates() (multitemplate.Render, error) {
	r := multitemplate.New()

	shared, err := sharedFiles()
	if err != nil {
		return nil, err
	}

	for _, view := range Views {
		files := append(append([]string{}, shared...), path.Join("templates/views", view))
		tmpl, err := template.New("base.html").Funcs(FuncMap()).ParseFS(templates, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", view, err)
		}
		r.Add(view, tmpl)
	}
	return r, nil
}

func sharedFiles() ([]string, error) {
	layouts, err := fs.Glob(templates, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	includes, err := fs.Glob(templates, "templates/includes/*.html")
	if err != nil {
		return nil, err
	}
	return append(layouts, includes...), nil
}
