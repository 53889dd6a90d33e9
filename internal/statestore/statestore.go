// Package statestore persists the open-trade set and a bounded tail of
// closed trades so the bot survives restarts. Every save rewrites the full
// document: a crash mid-write leaves either the prior consistent file or a
// torn one, and a torn file is treated the same as no file at all.
package statestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/types"
)

// historyLimit bounds the closed-trade tail kept in the document.
const historyLimit = 100

// Document is the on-disk shape of the trade state.
type Document struct {
	ActiveTrades map[string]*types.Trade `json:"active_trades"`
	History      []*types.Trade          `json:"history"`
}

// NewDocument returns an empty, usable document.
func NewDocument() *Document {
	return &Document{ActiveTrades: map[string]*types.Trade{}}
}

// Store reads and writes the trade-state document at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the state document. A missing file yields an empty document.
// An unreadable or invalid document also yields an empty one, with a
// prominent warning: trades already placed externally become untracked,
// which is an accepted and logged risk, never a silent one.
func (s *Store) Load(ctx context.Context) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn(ctx, "Trade state unreadable, starting with empty state; externally placed trades are now untracked",
				"path", s.path, "error", err)
		}
		return NewDocument()
	}

	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		logger.Warn(ctx, "Trade state corrupt, starting with empty state; externally placed trades are now untracked",
			"path", s.path, "error", err)
		return NewDocument()
	}
	if doc.ActiveTrades == nil {
		doc.ActiveTrades = map[string]*types.Trade{}
	}
	logger.Info(ctx, "Trade state loaded", "open_trades", len(doc.ActiveTrades), "history", len(doc.History))
	return &doc
}

// Save rewrites the full document. The write goes to a temp file in the
// same directory and is renamed into place, so readers never observe a
// partial document. The history tail is trimmed to its bound here.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(doc.History) > historyLimit {
		doc.History = doc.History[len(doc.History)-historyLimit:]
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".trades-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
