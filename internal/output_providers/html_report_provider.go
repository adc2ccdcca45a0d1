package outputproviders

import (
	"fmt"
	"html/template"
	"os"

	"github.com/tenantkit/tenantkit/internal/message"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

type HtmlReportProvider struct {
	types.OutputProvider
	OutputPath string
	FileName   string
}

func NewHtmlReportProvider(opts []*types.Option) types.OutputProvider {
	return &HtmlReportProvider{
		OutputPath: options.Value(options.OutputOpt.Name, opts),
		FileName:   options.Value(options.FileNameOpt.Name, opts),
	}
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Report.Title }}</title>
<style>
body { font-family: "Segoe UI", Arial, sans-serif; margin: 2em; color: #1b1b1b; background: #f5f6f7; }
h1 { border-bottom: 2px solid #0078d4; padding-bottom: 0.3em; }
h2 { margin-top: 1.6em; }
.meta { color: #5c5c5c; font-size: 0.9em; }
.summary { display: flex; gap: 1em; margin: 1.2em 0; }
.summary div { padding: 0.8em 1.4em; border-radius: 4px; color: #fff; font-weight: bold; }
.summary .pass { background: #107c10; }
.summary .warning { background: #c19c00; }
.summary .fail { background: #d13438; }
table { border-collapse: collapse; width: 100%; background: #fff; }
th, td { border: 1px solid #d0d0d0; padding: 0.45em 0.7em; text-align: left; }
th { background: #0078d4; color: #fff; }
td.status-Pass { color: #107c10; font-weight: bold; }
td.status-Warning { color: #c19c00; font-weight: bold; }
td.status-Fail { color: #d13438; font-weight: bold; }
</style>
</head>
<body>
<h1>{{ .Report.Title }}</h1>
<p class="meta">Tenant: {{ .Report.Tenant }} &middot; Run: {{ .Report.RunID }} &middot; Generated: {{ .Report.Generated.Format "2006-01-02 15:04:05 MST" }}</p>
<div class="summary">
<div class="pass">Pass: {{ .Summary.Pass }}</div>
<div class="warning">Warning: {{ .Summary.Warning }}</div>
<div class="fail">Fail: {{ .Summary.Fail }}</div>
</div>
{{ range .Categories }}
<h2>{{ .Name }} ({{ .Summary.Pass }} pass / {{ .Summary.Warning }} warning / {{ .Summary.Fail }} fail)</h2>
<table>
<tr><th>Test</th><th>Status</th><th>Details</th><th>Timestamp</th></tr>
{{ range .Results }}
<tr>
<td>{{ .Name }}</td>
<td class="status-{{ .Status }}">{{ .Status }}</td>
<td>{{ .Details }}</td>
<td>{{ .Timestamp.Format "2006-01-02 15:04:05" }}</td>
</tr>
{{ end }}
</table>
{{ end }}
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

type reportCategory struct {
	Name    string
	Summary types.Summary
	Results []types.TestResult
}

type reportView struct {
	Report     types.Report
	Summary    types.Summary
	Categories []reportCategory
}

func buildReportView(report types.Report) reportView {
	view := reportView{
		Report:  report,
		Summary: report.Summarize(),
	}
	for _, category := range report.Categories() {
		view.Categories = append(view.Categories, reportCategory{
			Name:    category,
			Summary: report.SummarizeCategory(category),
			Results: report.ResultsFor(category),
		})
	}
	return view
}

// Write renders a Report to a single static HTML page.
func (fp *HtmlReportProvider) Write(result types.Result) error {
	var report types.Report
	switch v := result.Data.(type) {
	case types.Report:
		report = v
	case *types.Report:
		report = *v
	default:
		return fmt.Errorf("incoming result 'Data' not of type Report instead received %T", result.Data)
	}

	filename := result.Filename
	if filename == "" {
		filename = fp.FileName
	}
	if filename == "" {
		filename = DefaultFileName(result.Module, "html")
	}
	fullpath := GetFullPath(ForceExtension(filename, "html"), fp.OutputPath)

	if err := EnsureDir(fullpath); err != nil {
		return err
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := reportTmpl.Execute(file, buildReportView(report)); err != nil {
		return err
	}

	message.Success("Report written to %s", fullpath)

	return nil
}
