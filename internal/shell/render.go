package shell

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

// DataElementID - id элемента со снапшотом хранилищ в разметке страницы.
const DataElementID = "__LEO_DATA__"

// ErrNoRegistry возвращается, если запрос не прошёл через Bootstrap.
var ErrNoRegistry = errors.New("store registry is not bootstrapped")

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "guitar", "login", "account", "not_found", "error"}

// Page - содержимое страницы внутри каркаса.
type Page struct {
	// Name - имя шаблона из templates/ и метка метрики.
	Name   string
	Title  string
	Status int
	Data   any
}

type view struct {
	Title       string
	Page        string
	LoggedIn    bool
	Identity    stores.Identity
	InitialData template.JS
	DataID      string
	WriteKey    string
	GTMID       string
	Year        int
	Data        any
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// Render рисует страницу в каркасе: верхнее меню, шапка, окно согласия,
// подвал. Снапшот хранилищ встраивается в страницу для гидратации клиента.
func (s *Shell) Render(w http.ResponseWriter, r *http.Request, page Page) {
	const op = "shell.Render"
	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("page", page.Name),
	)

	tmpl, ok := s.pages[page.Name]
	if !ok {
		log.Error("unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reg, ok := stores.FromContext(r.Context())
	if !ok {
		log.Error("render without registry", sl.Err(ErrNoRegistry))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	raw, err := reg.InitialData().Encode()
	if err != nil {
		log.Error("failed to encode initial data", sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	session := reg.Session()
	v := view{
		Title:    page.Title,
		Page:     page.Name,
		LoggedIn: session.LoggedIn(),
		Identity: session.Identity(),
		// json.Marshal экранирует <, > и &, поэтому снапшот не закроет тег script.
		InitialData: template.JS(raw),
		DataID:      DataElementID,
		WriteKey:    s.opts.WriteKey,
		GTMID:       s.opts.GTMID,
		Year:        time.Now().Year(),
		Data:        page.Data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		log.Error("failed to execute template", sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := page.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn("failed to write page", sl.Err(err))
	}
	if s.metrics != nil {
		s.metrics.PageRenders.WithLabelValues(page.Name).Inc()
	}
}
