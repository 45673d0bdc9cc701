// Package templates holds the HTML views. Each view is exposed as a
// templ.Component so handlers render them uniformly.
package templates

import (
	"bytes"
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/csg33k/employee-directory/internal/directory"
)

// PageData drives the directory page and its live results fragment.
type PageData struct {
	SessionID string
	Snapshot  directory.Snapshot
}

// DetailData drives the employee detail page.
type DetailData struct {
	ID   int64
	View directory.DetailView
	// Back is the listing URL the detail page links back to.
	Back string
}

var funcs = template.FuncMap{
	"itoa":     itoa,
	"initials": initials,
	"joined":   joined,
	"listURL":  listURL,
}

var baseTmpl = template.Must(template.New("base").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{block "title" .}}Employee Directory{{end}}</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;500;600&family=IBM+Plex+Sans:wght@300;400;500;600&display=swap" rel="stylesheet">
<style>
  :root {
    --ink: #0d1117;
    --paper: #f5f0e8;
    --ledger: #e8e0cc;
    --accent: #c0392b;
    --accent2: #2c6e49;
    --muted: #6b5e4e;
    --rule: #b8a898;
  }
  * { box-sizing: border-box; }
  body {
    background: var(--paper);
    color: var(--ink);
    font-family: 'IBM Plex Sans', sans-serif;
    min-height: 100vh;
    margin: 0;
  }
  a { color: inherit; }
  .mono { font-family: 'IBM Plex Mono', monospace; }
  .muted { color: var(--muted); }
  .search { display: flex; gap: 8px; margin-bottom: 24px; }
  .search input {
    flex: 1;
    background: white;
    border: 1px solid var(--rule);
    border-bottom: 2px solid var(--ink);
    padding: 10px 12px;
    font-family: 'IBM Plex Mono', monospace;
    font-size: 0.95rem;
    outline: none;
  }
  .search input:focus { border-bottom-color: var(--accent); }
  .btn {
    font-family: 'IBM Plex Mono', monospace;
    font-weight: 600;
    font-size: 0.8rem;
    letter-spacing: 0.08em;
    padding: 8px 18px;
    border: 2px solid var(--ink);
    background: white;
    cursor: pointer;
    text-transform: uppercase;
    text-decoration: none;
    display: inline-block;
  }
  .btn:hover:not([disabled]) { background: var(--ink); color: white; }
  .btn[disabled] { opacity: 0.35; cursor: not-allowed; }
  .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); gap: 16px; }
  .card {
    background: rgba(255,255,255,0.7);
    border: 1px solid var(--ledger);
    border-left: 4px solid var(--ink);
    padding: 16px;
    text-decoration: none;
    display: block;
  }
  .card:hover { border-left-color: var(--accent); }
  .card h3 { margin: 8px 0 2px; font-size: 1.05rem; }
  .card ul { list-style: none; padding: 0; margin: 12px 0 0; font-size: 0.85rem; }
  .card li { margin-top: 4px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
  .avatar {
    width: 36px; height: 36px; border-radius: 50%;
    background: var(--ink); color: white;
    display: flex; align-items: center; justify-content: center;
    font-family: 'IBM Plex Mono', monospace; font-size: 0.8rem;
  }
  .state { text-align: center; padding: 48px 16px; }
  .state.error { color: var(--accent); }
  .spinner {
    width: 28px; height: 28px; margin: 0 auto 12px;
    border: 3px solid var(--ledger); border-top-color: var(--ink); border-radius: 50%;
    animation: spin 0.8s linear infinite;
  }
  @keyframes spin { to { transform: rotate(360deg); } }
  .pager { display: flex; align-items: center; justify-content: space-between; margin-top: 24px; gap: 8px; flex-wrap: wrap; }
  .section-header {
    font-family: 'IBM Plex Mono', monospace;
    font-size: 0.7rem;
    font-weight: 600;
    letter-spacing: 0.18em;
    text-transform: uppercase;
    color: var(--muted);
    border-bottom: 1px solid var(--rule);
    padding-bottom: 4px;
    margin-bottom: 16px;
  }
  dl.profile { display: grid; grid-template-columns: 180px 1fr; gap: 8px 16px; }
  dl.profile dt { font-family: 'IBM Plex Mono', monospace; font-size: 0.7rem; text-transform: uppercase; color: var(--muted); }
  dl.profile dd { margin: 0; }
</style>
</head>
<body>
<div style="max-width:1100px;margin:0 auto;padding:32px 24px;">

<div style="margin-bottom:32px;">
  <div class="mono muted" style="font-size:0.65rem;letter-spacing:0.2em;margin-bottom:4px;">PEOPLE · TEAMS · DEPARTMENTS</div>
  <h1 class="mono" style="font-size:1.6rem;font-weight:600;letter-spacing:-0.02em;margin:0;">
    <a href="/" style="text-decoration:none;">Employee Directory</a>
  </h1>
  <div class="muted" style="font-size:0.85rem;margin-top:4px;">Search by name or department</div>
</div>

{{template "content" .}}

</div>
</body>
</html>
{{define "results"}}
{{- $s := .Snapshot -}}
<div id="results" data-view="{{$s.View.Kind}}" {{if eq $s.View.Kind.String "loading"}}aria-busy="true"{{end}}>
{{- with $s.View}}
  {{- if eq .Kind.String "loading"}}
  <div class="state"><div class="spinner"></div><p class="mono">{{.Message}}</p></div>
  {{- else if eq .Kind.String "error"}}
  <div class="state error"><p class="mono">{{.Message}}</p></div>
  {{- else if eq .Kind.String "populated"}}
  <div class="grid">{{range .Employees}}{{template "card" .}}{{end}}</div>
  {{template "pager" $}}
  {{- else}}
  <div class="state"><h3 class="mono">{{.Title}}</h3><p class="muted">{{.Message}}</p></div>
  {{- end}}
{{- end}}
</div>
{{end}}

{{define "card"}}
  <a class="card" href="/employees/{{itoa .ID}}">
    <div class="avatar">{{initials .Name}}</div>
    <h3>{{.Name}}</h3>
    <div class="muted" style="font-size:0.8rem;">{{.Designation}}</div>
    <ul>
      <li>{{.Department}}</li>
      <li class="mono">{{.Email}}</li>
      <li>Joined: {{joined .DateOfJoining}}</li>
    </ul>
  </a>
{{end}}

{{define "pager"}}
{{- $s := .Snapshot}}{{$p := $s.Pagination -}}
  <nav class="pager">
    <button class="btn" hx-post="/live/{{.SessionID}}/prev" hx-swap="none" {{if not $p.CanPrevious}}disabled{{end}}>&larr; Previous</button>
    <span class="mono muted">Page {{$p.Page}}</span>
    <button class="btn" hx-post="/live/{{.SessionID}}/next" hx-swap="none" {{if not $p.CanNext}}disabled{{end}}>Next &rarr;</button>
    {{- if eq $s.View.Kind.String "populated"}}
    <span>
      <a class="btn" href="{{listURL "/export.xlsx" $s.Search $p.Page}}">Excel</a>
      <a class="btn" href="{{listURL "/export.pdf" $s.Search $p.Page}}">PDF</a>
    </span>
    {{- end}}
  </nav>
{{end}}
`))

var homeTmpl = template.Must(template.Must(baseTmpl.Clone()).Parse(`
{{define "content"}}
<main hx-ext="sse" sse-connect="/live/{{.SessionID}}/events">
  <form class="search" action="/" method="get">
    <input id="search" type="search" name="search" value="{{.Snapshot.Input}}"
           placeholder="Search employees by name or department..." autocomplete="off" maxlength="100"
           hx-post="/live/{{.SessionID}}/search" hx-trigger="input changed, search" hx-swap="none">
    <button class="btn" type="button" hx-post="/live/{{.SessionID}}/clear" hx-swap="none"
            hx-on::after-request="document.getElementById('search').value=''">Clear</button>
  </form>
  <div class="section-header">Employees</div>
  <section id="results-region" sse-swap="snapshot">
    {{template "results" .}}
  </section>
</main>
{{end}}
`))

var detailTmpl = template.Must(template.Must(baseTmpl.Clone()).Parse(`
{{define "title"}}{{with .View.Employee}}{{.Name}} · {{end}}Employee Directory{{end}}
{{define "content"}}
<p><a class="btn" href="{{.Back}}">&larr; Back to directory</a></p>
{{- if .View.Employee}}{{with .View.Employee}}
<div class="card" style="padding:24px;">
  <div style="display:flex;align-items:center;gap:12px;">
    <div class="avatar">{{initials .Name}}</div>
    <div>
      <h2 style="margin:0;">{{.Name}}</h2>
      <div class="muted">{{.Designation}}</div>
    </div>
  </div>
  <div class="section-header" style="margin-top:24px;">Details</div>
  <dl class="profile">
    <dt>Email</dt><dd><a href="mailto:{{.Email}}">{{.Email}}</a></dd>
    <dt>Department</dt><dd>{{.Department}}</dd>
    <dt>Designation</dt><dd>{{.Designation}}</dd>
    <dt>Date of Joining</dt><dd>{{joined .DateOfJoining}}</dd>
  </dl>
  <p style="margin-top:24px;"><a class="btn" href="/employees/{{itoa .ID}}/pdf">Download profile (PDF)</a></p>
</div>
{{- end}}
{{- else}}
<div class="state {{.View.Kind}}"><p class="mono">{{.View.Message}}</p></div>
{{- end}}
{{end}}
`))

func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}

// Home is the full directory page.
func Home(d PageData) templ.Component { return component(homeTmpl, "base", d) }

// Results is the fragment streamed to the page on every snapshot.
func Results(d PageData) templ.Component { return component(baseTmpl, "results", d) }

func Detail(d DetailData) templ.Component { return component(detailTmpl, "base", d) }

// RenderString renders c into a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
