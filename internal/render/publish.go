package render

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/plan"
	"github.com/myrjola/fightcamp/internal/sqlite"
	"github.com/myrjola/fightcamp/internal/vocab"
)

// ArchivePublisher renders plans into the SQLite archive. The returned URL is served by the web server.
type ArchivePublisher struct {
	renderer *Renderer
	plans    *sqlite.PlanRepository
	baseURL  string
	now      func() time.Time
}

// NewArchivePublisher publishes into plans. baseURL is the public root of the web server.
func NewArchivePublisher(renderer *Renderer, plans *sqlite.PlanRepository, baseURL string) *ArchivePublisher {
	return &ArchivePublisher{
		renderer: renderer,
		plans:    plans,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

func (p *ArchivePublisher) Publish(ctx context.Context, doc plan.Document) (string, error) {
	page, err := p.renderer.Page(doc.Title, doc.Athlete, doc.Markdown, p.now())
	if err != nil {
		return "", errors.Wrap(err, "render page")
	}
	output := []byte("{}")
	var seed uint64
	if doc.Output != nil {
		if output, err = json.Marshal(doc.Output); err != nil {
			return "", errors.Wrap(err, "marshal output")
		}
		seed = doc.Output.Seed
	}
	id, err := p.plans.Create(ctx, sqlite.Plan{
		ID:        "",
		Athlete:   doc.Athlete,
		Title:     doc.Title,
		Seed:      seed,
		Markdown:  doc.Markdown,
		HTML:      page,
		Output:    output,
		CreatedAt: time.Time{},
	})
	if err != nil {
		return "", errors.Wrap(err, "archive plan")
	}
	return p.baseURL + "/plans/" + id, nil
}

// DirPublisher writes rendered plans as HTML files into a directory.
type DirPublisher struct {
	renderer *Renderer
	dir      string
	baseURL  string
	logger   *slog.Logger
	now      func() time.Time
}

// NewDirPublisher writes into dir, creating it when needed. Returned URLs are baseURL joined with the file
// name, or file URLs when baseURL is empty.
func NewDirPublisher(renderer *Renderer, dir, baseURL string, logger *slog.Logger) *DirPublisher {
	return &DirPublisher{
		renderer: renderer,
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
		now:      time.Now,
	}
}

func (p *DirPublisher) Publish(ctx context.Context, doc plan.Document) (string, error) {
	page, err := p.renderer.Page(doc.Title, doc.Athlete, doc.Markdown, p.now())
	if err != nil {
		return "", errors.Wrap(err, "render page")
	}
	if err = os.MkdirAll(p.dir, 0o750); err != nil { //nolint:mnd // owner and group.
		return "", errors.Wrap(err, "create output dir", slog.String("dir", p.dir))
	}
	slug := strings.ReplaceAll(vocab.Slug(doc.Athlete), "_", "-")
	if slug == "" {
		slug = "plan"
	}
	name := slug + "-" + uuid.NewString() + ".html"
	path := filepath.Join(p.dir, name)
	if err = os.WriteFile(path, page, 0o600); err != nil { //nolint:mnd // owner only.
		return "", errors.Wrap(err, "write plan", slog.String("path", path))
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "wrote plan", slog.String("path", path))
	if p.baseURL != "" {
		return p.baseURL + "/" + name, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, "resolve plan path", slog.String("path", path))
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil //nolint:exhaustruct // file URL.
}
