// Package tradelog appends cycle outcomes to daily JSONL files so that
// trades, no-signal cycles, risk blocks and below-minimum skips stay
// distinguishable after the fact.
package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// Entry is one recorded cycle outcome.
type Entry struct {
	Time     string            `json:"time"`
	Symbol   string            `json:"symbol"`
	Outcome  string            `json:"outcome"`
	Side     string            `json:"side,omitempty"`
	SizeUSDT float64           `json:"size_usdt,omitempty"`
	Price    float64           `json:"price"`
	Weight   float64           `json:"weight,omitempty"`
	PnL      float64           `json:"pnl,omitempty"`
	Reasons  map[string]string `json:"reasons,omitempty"`
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), d+".txt")
}

// Append writes the entry as one JSON line to today's log file, creating the
// directory and file as needed.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips daily log files older than retentionDays and removes
// the originals. A non-positive retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil {
			return nil
		}
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
