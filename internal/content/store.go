package content

import (
	"context"
	"io/fs"
	"os"
	"sync/atomic"

	"github.com/conneroisu/sprout/internal/config"
	"github.com/conneroisu/sprout/internal/logging"
)

// Store holds the current Site and swaps it on reload. Readers always see
// a complete Site; a failed reload keeps the previous one.
type Store struct {
	cfg     config.ContentConfig
	fsys    fs.FS
	md      *Markdown
	logger  logging.Logger
	current atomic.Pointer[Site]
}

// NewStore picks the content source from cfg (the embedded content when
// Dir is empty) and performs the first load.
func NewStore(ctx context.Context, cfg config.ContentConfig, logger logging.Logger) (*Store, error) {
	var fsys fs.FS
	if cfg.Dir == "" {
		fsys = EmbeddedFS()
	} else {
		fsys = os.DirFS(cfg.Dir)
	}

	return NewStoreFS(ctx, fsys, cfg, logger)
}

// NewStoreFS is NewStore over an explicit filesystem.
func NewStoreFS(ctx context.Context, fsys fs.FS, cfg config.ContentConfig, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	s := &Store{
		cfg:    cfg,
		fsys:   fsys,
		md:     NewMarkdown(cfg.Highlight),
		logger: logger.WithComponent("content"),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Site returns the current content.
func (s *Store) Site() *Site {
	return s.current.Load()
}

// Dir returns the on-disk content directory, or "" for embedded content.
func (s *Store) Dir() string {
	return s.cfg.Dir
}

// Reload re-reads and re-renders all content.
func (s *Store) Reload(ctx context.Context) error {
	perf := logging.StartOperation(s.logger, "content_load")

	site, err := Load(s.fsys, s.cfg.Guide, s.cfg.Changelog, s.md)
	if err != nil {
		perf.EndWithError(ctx, err)

		return err
	}
	s.current.Store(site)
	perf.End(ctx)

	s.logger.Info(ctx, "Content loaded",
		"sections", len(site.Guide),
		"releases", len(site.Changelog))

	return nil
}
