package persistence

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/types"
)

const (
	jsonlExt  = ".jsonl"
	dayLayout = "2006-01-02"
)

// JSONL appends insight records to one JSON-lines file per UTC day.
type JSONL struct {
	mu            sync.Mutex
	dir           string
	retentionDays int
}

var _ interfaces.InsightStore = (*JSONL)(nil)

func NewJSONL(dir string, retentionDays int) *JSONL {
	return &JSONL{dir: dir, retentionDays: retentionDays}
}

func (j *JSONL) Name() string {
	return "JSONL"
}

// DailyPath returns the file a record recorded at t is written to.
func (j *JSONL) DailyPath(t time.Time) string {
	return filepath.Join(j.dir, t.UTC().Format(dayLayout)+jsonlExt)
}

func (j *JSONL) Save(ctx context.Context, record types.InsightRecord) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	p := j.DailyPath(record.RecordedAt)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, string(b)); err != nil {
		return fmt.Errorf("append %s: %w", p, err)
	}
	logger.Debug(ctx, "Insight appended", "path", p)
	return nil
}

// CompressOlder gzips daily files whose day is more than retentionDays before
// now and removes the originals. It returns the compressed paths.
func (j *JSONL) CompressOlder(ctx context.Context, now time.Time) ([]string, error) {
	if j.retentionDays <= 0 {
		return nil, nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := os.ReadDir(j.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cutoff := now.UTC().AddDate(0, 0, -j.retentionDays).Format(dayLayout)
	var compressed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != jsonlExt {
			continue
		}
		day := strings.TrimSuffix(name, jsonlExt)
		if _, err := time.Parse(dayLayout, day); err != nil || day >= cutoff {
			continue
		}

		p := filepath.Join(j.dir, name)
		if err := gzipFile(p); err != nil {
			logger.ErrorWithErr(ctx, "Failed to compress insight file", err, "path", p)
			continue
		}
		compressed = append(compressed, p+".gz")
	}
	return compressed, nil
}

func gzipFile(p string) error {
	gz := p + ".gz"
	if _, err := os.Stat(gz); err == nil {
		return os.Remove(p)
	}

	in, err := os.Open(p)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		_ = os.Remove(gz)
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(p)
}
