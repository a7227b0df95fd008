package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/store"
)

const notionTimeout = 30 * time.Second

// Stores is the configured persistence layer and the resources it owns.
type Stores struct {
	interfaces.InsightStore
	jsonl   *JSONL
	closers []io.Closer
}

// Compact compresses old JSONL files when a JSONL backend is configured.
func (s *Stores) Compact(ctx context.Context, now time.Time) {
	if s.jsonl == nil {
		return
	}
	compressed, err := s.jsonl.CompressOlder(ctx, now)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to compact insight files", err)
		return
	}
	if len(compressed) > 0 {
		logger.Info(ctx, "Compacted insight files", "files", len(compressed))
	}
}

func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// New builds the stores named in persistence.backends. A single backend is
// used directly; several are fanned out through Multi.
func New(ctx context.Context, cfg *store.Config) (*Stores, error) {
	out := &Stores{}
	var stores []interfaces.InsightStore

	for _, backend := range cfg.Persistence.Backends {
		switch strings.ToUpper(backend) {
		case "NOTION":
			key := store.Secret(cfg.Persistence.Notion.APIKeyEnv)
			if key == "" {
				_ = out.Close()
				return nil, fmt.Errorf("%s is not set", cfg.Persistence.Notion.APIKeyEnv)
			}
			stores = append(stores, NewNotion(NotionBaseURL, key, cfg.Persistence.Notion.DatabaseID, cfg.Language, notionTimeout))
		case "POSTGRES":
			dsn := store.Secret(cfg.Persistence.Postgres.DSNEnv)
			if dsn == "" {
				_ = out.Close()
				return nil, fmt.Errorf("%s is not set", cfg.Persistence.Postgres.DSNEnv)
			}
			s, err := OpenSQL(ctx, Postgres, dsn)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			stores = append(stores, s)
			out.closers = append(out.closers, s)
		case "SQLITE":
			s, err := OpenSQL(ctx, SQLite, cfg.Persistence.SQLite.Path)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			stores = append(stores, s)
			out.closers = append(out.closers, s)
		case "JSONL":
			out.jsonl = NewJSONL(cfg.Persistence.JSONL.Dir, cfg.Persistence.JSONL.RetentionDays)
			stores = append(stores, out.jsonl)
		default:
			_ = out.Close()
			return nil, fmt.Errorf("unsupported persistence backend %q", backend)
		}
	}

	switch len(stores) {
	case 0:
		return nil, errors.New("no persistence backend configured")
	case 1:
		out.InsightStore = stores[0]
	default:
		out.InsightStore = NewMulti(stores...)
	}

	logger.Info(ctx, "Persistence ready", "store", out.Name())
	return out, nil
}

func normalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
