package diff

import (
	"fmt"
	"html/template"
	"strings"
)

// htmlPage is a self-contained side-by-side diff view. Unchanged context is
// aligned across both columns; removed lines appear only on the left and
// added lines only on the right.
const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: monospace; margin: 1em; }
table.diff { border-collapse: collapse; width: 100%; }
table.diff th { background: #f0f0f0; padding: 4px 8px; text-align: left; }
table.diff td { padding: 1px 8px; vertical-align: top; white-space: pre-wrap; }
td.num { color: #999; text-align: right; width: 3em; user-select: none; }
tr.removed td.text { background: #ffecec; }
tr.added td.text { background: #eaffea; }
tr.gap td { background: #fafafa; color: #999; text-align: center; }
</style>
</head>
<body>
<table class="diff">
<tr><th colspan="2">{{.FromLabel}}</th><th colspan="2">{{.ToLabel}}</th></tr>
{{- range .Rows}}
{{- if .Gap}}
<tr class="gap"><td colspan="4">&hellip;</td></tr>
{{- else}}
<tr class="{{.Class}}"><td class="num">{{.OldNumber}}</td><td class="text">{{.OldText}}</td><td class="num">{{.NewNumber}}</td><td class="text">{{.NewText}}</td></tr>
{{- end}}
{{- end}}
</table>
</body>
</html>
`

type htmlRow struct {
	Gap       bool
	Class     string
	OldNumber string
	NewNumber string
	OldText   string
	NewText   string
}

type htmlView struct {
	Title     string
	FromLabel string
	ToLabel   string
	Rows      []htmlRow
}

var diffTemplate = template.Must(template.New("diff").Parse(htmlPage))

// RenderHTML renders the line diff of two texts as a browsable HTML page,
// showing hunks with the given amount of surrounding context.
func RenderHTML(oldText, newText, fromLabel, toLabel string, context int) (string, error) {
	hunks := Hunks(Lines(oldText, newText), context)

	var rows []htmlRow
	for i, hunk := range hunks {
		if i > 0 {
			rows = append(rows, htmlRow{Gap: true})
		}
		for _, line := range hunk.Lines {
			row := htmlRow{}
			switch line.Op {
			case OpEqual:
				row.OldNumber = fmt.Sprintf("%d", line.OldNumber)
				row.NewNumber = fmt.Sprintf("%d", line.NewNumber)
				row.OldText = line.Content
				row.NewText = line.Content
			case OpRemoved:
				row.Class = "removed"
				row.OldNumber = fmt.Sprintf("%d", line.OldNumber)
				row.OldText = line.Content
			case OpAdded:
				row.Class = "added"
				row.NewNumber = fmt.Sprintf("%d", line.NewNumber)
				row.NewText = line.Content
			}
			rows = append(rows, row)
		}
	}

	view := htmlView{
		Title:     fmt.Sprintf("%s vs %s", fromLabel, toLabel),
		FromLabel: fromLabel,
		ToLabel:   toLabel,
		Rows:      rows,
	}

	var b strings.Builder
	if err := diffTemplate.Execute(&b, view); err != nil {
		return "", err
	}
	return b.String(), nil
}
