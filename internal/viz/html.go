package viz

import (
	"bytes"
	"html/template"

	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/record"
)

// Compiled at init time to fail fast on template errors.
var (
	reportTemplate    *template.Template
	dashboardTemplate *template.Template
)

var templateFuncs = template.FuncMap{
	"bars":  BarChartSVG,
	"cloud": WordCloudHTML,
}

func init() {
	reportTemplate = template.Must(template.New("report").Funcs(templateFuncs).Parse(baseStyle + reportHTML))
	dashboardTemplate = template.Must(template.New("dashboard").Funcs(templateFuncs).Parse(baseStyle + dashboardHTML))
}

// Image is a chart file referenced from the report page.
type Image struct {
	Title string
	File  string
}

// ReportData holds data for the batch report page.
type ReportData struct {
	Title       string
	RunID       string
	Generated   string
	Source      string
	Path        string
	Fingerprint string
	Rows        int
	View        aggregate.View
	YearTable   aggregate.Histogram
	Images      []Image
}

// DashboardData holds data for one render of the dashboard page.
type DashboardData struct {
	Title    string
	Source   string
	Path     string
	Rows     int // Records loaded, before filtering
	Filter   aggregate.Filter
	Query    string
	MinYear  int
	MaxYear  int
	Journals []string // Selector options, AllJournals first
	View     aggregate.View

	YearTable aggregate.Histogram
	Sample    []record.CleanedRecord

	YearChartURL    template.URL
	JournalChartURL template.URL
	WordCloudURL    template.URL
}

// ReportHTML generates a self-contained HTML page for the batch report.
func ReportHTML(data ReportData) (string, error) {
	return execute(reportTemplate, data)
}

// DashboardHTML generates the dashboard page.
func DashboardHTML(data DashboardData) (string, error) {
	return execute(dashboardTemplate, data)
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const baseStyle = `{{define "style"}}<style>
    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 1.5em 2em;
      background: #f5f5f5;
      color: #333;
    }
    section {
      background: white;
      border-radius: 4px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.08);
      padding: 1em 1.5em;
      margin-bottom: 1.5em;
    }
    h1 { margin-top: 0; }
    .meta { color: #666; font-size: 13px; }
    table { border-collapse: collapse; font-size: 13px; }
    th, td { border-bottom: 1px solid #e0e0e0; padding: 4px 10px; text-align: left; }
    svg.bars rect { fill: #4A90D9; }
    svg.bars text { font-size: 12px; fill: #333; }
    svg.bars text.count { fill: #888; }
    .cloud { line-height: 1.6; max-width: 900px; }
    .cloud span { margin-right: 0.4em; }
    .empty { color: #888; font-style: italic; }
    form label { margin-right: 1em; }
  </style>{{end}}`

const reportHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  {{template "style"}}
</head>
<body>
  <h1>{{.Title}}</h1>
  <p class="meta">Run {{.RunID}} &middot; {{.Generated}} &middot; {{.Rows}} records from {{.Source}} file <code>{{.Path}}</code> &middot; blake2b {{.Fingerprint}}</p>

  <section>
    <h2>Publications by Year</h2>
    {{bars .YearTable}}
    <p class="meta">{{.View.WithYear}} of {{.View.Records}} records have a publication year.</p>
  </section>

  <section>
    <h2>Top Journals</h2>
    {{bars .View.Journals}}
  </section>

  <section>
    <h2>Most Common Words in Titles</h2>
    {{cloud .View.Words}}
  </section>

  <section>
    <h2>Abstract Length</h2>
    <table>
      <tr><th>Mean</th><td>{{printf "%.1f" .View.Abstracts.Mean}}</td></tr>
      <tr><th>Median</th><td>{{printf "%.1f" .View.Abstracts.Median}}</td></tr>
      <tr><th>Max</th><td>{{.View.Abstracts.Max}}</td></tr>
      <tr><th>Empty</th><td>{{.View.Abstracts.Zero}}</td></tr>
    </table>
  </section>

  {{if .Images}}
  <section>
    <h2>Charts</h2>
    {{range .Images}}
    <figure>
      <img src="{{.File}}" alt="{{.Title}}">
      <figcaption>{{.Title}}</figcaption>
    </figure>
    {{end}}
  </section>
  {{end}}
</body>
</html>`

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  {{template "style"}}
</head>
<body>
  <h1>{{.Title}}</h1>
  <p class="meta">{{.Rows}} records loaded from {{.Source}} file <code>{{.Path}}</code></p>

  <section>
    <form method="get" action="/">
      <label>Year from
        <input type="number" name="year_min" min="{{.MinYear}}" max="{{.MaxYear}}" value="{{.Filter.YearMin}}">
      </label>
      <label>to
        <input type="number" name="year_max" min="{{.MinYear}}" max="{{.MaxYear}}" value="{{.Filter.YearMax}}">
      </label>
      <label>Journal
        <select name="journal">
          {{- $selected := .Filter.Journal}}
          {{range .Journals}}<option value="{{.}}"{{if eq . $selected}} selected{{end}}>{{.}}</option>{{end}}
        </select>
      </label>
      <label>Search
        <input type="search" name="q" value="{{.Query}}" placeholder="title or abstract">
      </label>
      <button type="submit">Apply</button>
    </form>
    <p class="meta">{{.View.Records}} records match.</p>
  </section>

  <section>
    <h2>Data Sample</h2>
    {{if .Sample}}
    <table>
      <tr><th>cord_uid</th><th>title</th><th>publish_time</th><th>journal</th><th>source_x</th></tr>
      {{range .Sample}}
      <tr><td>{{.UID}}</td><td>{{.Title}}</td><td>{{.PublishDate}}</td><td>{{.Journal}}</td><td>{{.Source}}</td></tr>
      {{end}}
    </table>
    {{else}}
    <p class="empty">No records match the current selection.</p>
    {{end}}
  </section>

  <section>
    <h2>Publications by Year</h2>
    {{bars .YearTable}}
    <p class="meta"><a href="{{.YearChartURL}}">PNG</a></p>
  </section>

  <section>
    <h2>Top Journals</h2>
    {{bars .View.Journals}}
    <p class="meta"><a href="{{.JournalChartURL}}">PNG</a></p>
  </section>

  <section>
    <h2>Title Word Cloud</h2>
    {{cloud .View.Words}}
    {{if .View.Words}}<p class="meta"><a href="{{.WordCloudURL}}">PNG</a></p>{{end}}
  </section>
</body>
</html>`
