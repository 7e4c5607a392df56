package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const formatFlag = "format"

// renderFormat executes a --format template against data. A trailing newline
// is added when the template does not end with one.
func renderFormat(w io.Writer, format string, data any) error {
	tmpl, err := template.New(formatFlag).Funcs(sprig.TxtFuncMap()).Parse(format)
	if err != nil {
		return fmt.Errorf("failed to parse --format template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Errorf("failed to render --format template: %w", err)
	}

	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}
