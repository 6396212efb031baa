// Package store persists the chat transcript and translation history in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/chattran/internal/chat"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		direction TEXT NOT NULL,
		text TEXT NOT NULL,
		display_text TEXT NOT NULL DEFAULT '',
		original_text TEXT,
		is_translated BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- translation_history records every translation applied or returned
	CREATE TABLE IF NOT EXISTS translation_history (
		id TEXT PRIMARY KEY,
		message_id TEXT NOT NULL DEFAULT '',
		direction TEXT NOT NULL DEFAULT '',
		source_text TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		profile TEXT NOT NULL DEFAULT '',
		preset TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_messages_position ON messages(position);
	CREATE INDEX IF NOT EXISTS idx_history_lookup ON translation_history(target_lang, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveMessages replaces the stored transcript with messages, in order.
func (s *Store) SaveMessages(ctx context.Context, messages []chat.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (id, position, direction, text, display_text, original_text, is_translated, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range messages {
		var original sql.NullString
		translated := false
		if m.Translation != nil {
			original = sql.NullString{String: m.Translation.OriginalText, Valid: true}
			translated = m.Translation.IsTranslated
		}
		if _, err := stmt.ExecContext(ctx,
			m.ID, i, string(m.Direction), m.Text, m.DisplayText, original, translated, m.CreatedAt, m.UpdatedAt); err != nil {
			return fmt.Errorf("failed to save message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadMessages returns the stored transcript in order.
func (s *Store) LoadMessages(ctx context.Context) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, direction, text, display_text, original_text, is_translated, created_at, updated_at FROM messages ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []chat.Message
	for rows.Next() {
		var (
			m          chat.Message
			direction  string
			original   sql.NullString
			translated bool
		)
		if err := rows.Scan(&m.ID, &direction, &m.Text, &m.DisplayText, &original, &translated, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Direction = chat.Direction(direction)
		if original.Valid {
			m.Translation = &chat.TranslationState{OriginalText: original.String, IsTranslated: translated}
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// ClearMessages removes the stored transcript.
func (s *Store) ClearMessages(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HistoryEntry is a row from the translation_history table.
type HistoryEntry struct {
	ID             string         `json:"id"`
	MessageID      string         `json:"message_id,omitempty"`
	Direction      chat.Direction `json:"direction,omitempty"`
	SourceText     string         `json:"source_text"`
	TargetLang     string         `json:"target_lang"`
	TranslatedText string         `json:"translated_text"`
	Profile        string         `json:"profile"`
	Preset         string         `json:"preset"`
	CreatedAt      time.Time      `json:"created_at"`
}

// RecordTranslation appends e to the history, assigning ID and CreatedAt when
// they are unset. Source text is stored trimmed and NFC-normalized.
func (s *Store) RecordTranslation(ctx context.Context, e HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_history (id, message_id, direction, source_text, target_lang, translated_text, profile, preset, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.MessageID, string(e.Direction), normalizeText(e.SourceText), e.TargetLang, e.TranslatedText, e.Profile, e.Preset, e.CreatedAt)
	return err
}

// ListHistory returns the most recent entries first. limit <= 0 returns all.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := `SELECT id, message_id, direction, source_text, target_lang, translated_text, profile, preset, created_at FROM translation_history ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryHistory(ctx, query, args...)
}

func (s *Store) queryHistory(ctx context.Context, query string, args ...interface{}) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var direction string
		if err := rows.Scan(&e.ID, &e.MessageID, &direction, &e.SourceText, &e.TargetLang, &e.TranslatedText, &e.Profile, &e.Preset, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Direction = chat.Direction(direction)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearHistory removes all history entries.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_history`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HistoryMatch is a history entry scored against a search text.
type HistoryMatch struct {
	HistoryEntry
	Score float64 `json:"score"`
}

// SearchHistory returns entries whose normalised source text has at least
// threshold similarity (0–1) to text, best match first. targetLang filters
// when non-empty. Texts longer than 1 000 runes are not fuzzy-matched.
func (s *Store) SearchHistory(ctx context.Context, text, targetLang string, threshold float64) ([]HistoryMatch, error) {
	normalized := normalizeText(text)
	const maxFuzzyRunes = 1000
	if normalized == "" || len([]rune(normalized)) > maxFuzzyRunes {
		return nil, nil
	}

	query := `SELECT id, message_id, direction, source_text, target_lang, translated_text, profile, preset, created_at FROM translation_history`
	var args []interface{}
	if targetLang != "" {
		query += ` WHERE target_lang = ?`
		args = append(args, targetLang)
	}

	entries, err := s.queryHistory(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var matches []HistoryMatch
	for _, e := range entries {
		// Quick length pre-filter: if the length difference alone makes it
		// impossible to reach the threshold, skip the edit distance.
		ls, lr := len([]rune(normalized)), len([]rune(e.SourceText))
		maxL := max(ls, lr)
		diff := ls - lr
		if diff < 0 {
			diff = -diff
		}
		if maxL > 0 && 1.0-float64(diff)/float64(maxL) < threshold {
			continue
		}

		if score := stringSimilarity(normalized, e.SourceText); score >= threshold {
			matches = append(matches, HistoryMatch{HistoryEntry: e, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// levenshtein returns the edit distance between two strings (rune-aware).
// Uses a space-optimized two-row DP implementation.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min(prev[j], prev[j-1], curr[j-1]) + 1
			}
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

// stringSimilarity returns a similarity score in [0, 1] (1 = identical).
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}
