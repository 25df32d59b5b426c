package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/camden-git/songjournal/models"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

var journalPage = template.Must(template.New("journal.html").Funcs(template.FuncMap{
	"when": func(t time.Time) string { return t.Local().Format("Jan 2, 2006 15:04") },
}).ParseFS(webFS, "web/templates/journal.html"))

// StaticFS holds the page's JS and CSS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return sub
}

type moodOption struct {
	Value models.Mood
	Label string
}

type journalPageData struct {
	Entries []models.JournalEntry
	Artists []string
	Moods   []moodOption
	Error   string
}

// UIHandler renders the journal page: the entry form and the timeline.
type UIHandler struct {
	Service JournalService
}

func (uh *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := journalPageData{}
	for _, m := range models.Moods() {
		data.Moods = append(data.Moods, moodOption{Value: m, Label: m.Label()})
	}

	status := http.StatusOK
	entries, err := uh.Service.List(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error loading journal for page")
		data.Error = "Could not load journal entries."
		status = http.StatusInternalServerError
	}
	data.Entries = entries

	// autocomplete is best-effort
	if artists, err := uh.Service.ArtistNames(r.Context(), ""); err == nil {
		data.Artists = artists
	} else {
		hlog.FromRequest(r).Warn().Err(err).Msg("error loading artists for page")
	}

	var buf bytes.Buffer
	if err := journalPage.Execute(&buf, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("error rendering journal page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
