package web

import (
	"html/template"
	"time"

	"github.com/conorfennell/edusprint/internal/domain"
)

var funcs = template.FuncMap{
	"date": func(ms int64) string {
		return domain.FromMillis(ms).Local().Format("2006-01-02 15:04")
	},
	"scanned": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
}
