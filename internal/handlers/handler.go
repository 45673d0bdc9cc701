package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/a-h/templ"

	"github.com/csg33k/employee-directory/internal/directory"
	"github.com/csg33k/employee-directory/internal/live"
	"github.com/csg33k/employee-directory/internal/logger"
	"github.com/csg33k/employee-directory/internal/middleware"
	"github.com/csg33k/employee-directory/internal/ports"
	"github.com/csg33k/employee-directory/internal/templates"
)

// MaxSearchLength matches the limit the employee API enforces.
const MaxSearchLength = 100

type Deps struct {
	Fetcher   *directory.Fetcher
	Sessions  *live.Manager
	Profiles  ports.ProfileRenderer
	Exporters []ports.PageExporter
	// Heartbeat is the interval of keep-alive comments on event streams.
	Heartbeat time.Duration
}

type Handler struct {
	fetcher   *directory.Fetcher
	sessions  *live.Manager
	profiles  ports.ProfileRenderer
	exporters []ports.PageExporter
	heartbeat time.Duration
}

func New(d Deps) *Handler {
	if d.Heartbeat <= 0 {
		d.Heartbeat = 25 * time.Second
	}
	return &Handler{
		fetcher:   d.Fetcher,
		sessions:  d.Sessions,
		profiles:  d.Profiles,
		exporters: d.Exporters,
		heartbeat: d.Heartbeat,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /healthz", h.health)

	mux.HandleFunc("POST /live/{sid}/search", h.liveSearch)
	mux.HandleFunc("POST /live/{sid}/next", h.liveNext)
	mux.HandleFunc("POST /live/{sid}/prev", h.livePrev)
	mux.HandleFunc("POST /live/{sid}/clear", h.liveClear)
	mux.HandleFunc("GET /live/{sid}/events", h.liveEvents)

	mux.HandleFunc("GET /employees/{id}", h.employeeDetail)
	mux.HandleFunc("GET /employees/{id}/pdf", h.employeePDF)
	for _, e := range h.exporters {
		mux.HandleFunc("GET /export."+e.Extension(), h.exportPage(e))
	}
	return middleware.Logging(middleware.Recovery(mux))
}

// index renders the first page server-side and opens a live session seeded
// with that result.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	search, page := h.listQuery(r)
	st := h.fetcher.Fetch(r.Context(), search, page)
	sess := h.sessions.Create(r.Context(), &directory.Seed{Search: search, Page: page, State: st})
	render(w, r, templates.Home(templates.PageData{SessionID: sess.ID, Snapshot: sess.Snapshot()}))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) employeeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	st := h.fetcher.FetchByID(r.Context(), id)
	data := templates.DetailData{ID: id, View: directory.SelectDetailView(st), Back: backURL(r)}
	renderStatus(w, r, detailStatusCode(st.Status), templates.Detail(data))
}

func (h *Handler) employeePDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	st := h.fetcher.FetchByID(r.Context(), id)
	if st.Status != directory.DetailFound {
		http.Error(w, directory.SelectDetailView(st).Message, detailStatusCode(st.Status))
		return
	}
	var buf bytes.Buffer
	if err := h.profiles.Profile(st.Employee, &buf); err != nil {
		logger.ErrorErr(r.Context(), err, "rendering profile pdf failed")
		http.Error(w, err.Error(), 500)
		return
	}
	filename := fmt.Sprintf("employee_%d_%s.pdf", id, slug(st.Employee.Name))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

// exportPage serves the page selected by ?search=&page= in e's format.
func (h *Handler) exportPage(e ports.PageExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search, page := h.listQuery(r)
		st := h.fetcher.Fetch(r.Context(), search, page)
		if st.Status != directory.StatusLoaded {
			http.Error(w, st.Message, http.StatusBadGateway)
			return
		}
		var buf bytes.Buffer
		if err := e.Export(r.Context(), exportTitle(search, page), st.Items, &buf); err != nil {
			logger.ErrorErr(r.Context(), err, "export failed")
			http.Error(w, err.Error(), 500)
			return
		}
		filename := fmt.Sprintf("employees_page%d_%s.%s", page, time.Now().Format("20060102"), e.Extension())
		w.Header().Set("Content-Type", e.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.Write(buf.Bytes())
	}
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	renderStatus(w, r, http.StatusOK, c)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	html, err := templates.RenderString(r.Context(), c)
	if err != nil {
		logger.ErrorErr(r.Context(), err, "rendering template failed")
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func detailStatusCode(s directory.DetailStatus) int {
	switch s {
	case directory.DetailFound:
		return http.StatusOK
	case directory.DetailNotFound:
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.PathValue(key), 10, 64)
}

// listQuery reads ?search= and ?page= the way the listing links build them.
// The term is kept verbatim apart from length so whitespace-only searches
// reach the view selector.
func (h *Handler) listQuery(r *http.Request) (string, int) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	return clampSearch(q.Get("search")), h.fetcher.ClampPage(page)
}

func clampSearch(s string) string {
	if utf8.RuneCountInString(s) <= MaxSearchLength {
		return s
	}
	return string([]rune(s)[:MaxSearchLength])
}

// backURL returns the listing to link back to from a detail page. Only
// same-site paths from the Referer are trusted.
func backURL(r *http.Request) string {
	u, err := url.Parse(r.Referer())
	if err != nil || u.Host != r.Host || u.Path != "/" {
		return "/"
	}
	return u.RequestURI()
}

func exportTitle(search string, page int) string {
	if strings.TrimSpace(search) == "" {
		return fmt.Sprintf("All employees (page %d)", page)
	}
	return fmt.Sprintf("Employees matching %q (page %d)", search, page)
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
