// Package render draws a PhoneContent as simple HTML screens. All text coming from the model or
// from character names is escaped at interpolation.
package render

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed phone.html
var phoneHTML string

var funcs = template.FuncMap{
	"ledgerSign": func(t model.LedgerType) string {
		if t == model.LedgerIncome {
			return "+"
		}
		return "-"
	},
}

var tmpl = template.Must(template.New("phone").Funcs(funcs).Parse(phoneHTML))

// HTML writes the whole phone as one HTML page. Every value is interpolated through html/template, which
// escapes it for its context (text, attribute or URL), so model and user text is never trusted as markup.
func HTML(w io.Writer, content *model.PhoneContent) error {
	if content == nil {
		return goerr.New("phone content is nil")
	}
	if err := tmpl.Execute(w, content); err != nil {
		return goerr.Wrap(err, "failed to render phone", goerr.V("character_id", content.CharacterID))
	}
	return nil
}
