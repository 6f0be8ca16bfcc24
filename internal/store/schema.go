package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// SchemaVersion is the current on-disk schema version, tracked with
// PRAGMA user_version. Upgrades only ever add tables and indexes.
const SchemaVersion = 3

// Collection names a typed group of records.
type Collection string

const (
	Questions           Collection = "questions"
	AICache             Collection = "ai_cache"
	ConversationHistory Collection = "conversation_history"
	Flashcards          Collection = "flashcards"
	Novel               Collection = "novel"
	GeneratedContent    Collection = "generated_content"
	Prefs               Collection = "prefs"
)

// collections maps each collection to its indexed fields. Each index field
// is resolved against the stored JSON document with the given gjson path.
var collections = map[Collection]map[string]string{
	Questions: {
		"subject": "tags.subject",
		"year":    "tags.year",
	},
	AICache:             {},
	ConversationHistory: {},
	Flashcards: {
		"subject": "subject",
		"topic":   "topic",
	},
	Novel: {},
	GeneratedContent: {
		"kind": "kind",
	},
	Prefs: {},
}

// Collections returns every known collection name in a stable order.
func Collections() []Collection {
	out := make([]Collection, 0, len(collections))
	for c := range collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func indexFields(c Collection) []string {
	fields := make([]string, 0, len(collections[c]))
	for f := range collections[c] {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func indexColumn(field string) string {
	return "idx_" + field
}

// schemaStatements returns the additive DDL for every collection.
func schemaStatements() []string {
	var stmts []string
	for _, c := range Collections() {
		cols := "key TEXT PRIMARY KEY,\n\t\t\tvalue TEXT NOT NULL,\n\t\t\tupdated_at INTEGER NOT NULL"
		for _, f := range indexFields(c) {
			cols += fmt.Sprintf(",\n\t\t\t%s TEXT", indexColumn(f))
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t\t\t%s\n\t\t)", c, cols))
		for _, f := range indexFields(c) {
			stmts = append(stmts, fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", c, f, c, indexColumn(f)))
		}
	}

	stmts = append(stmts,
		`CREATE TABLE IF NOT EXISTS llm_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_requests_purpose ON llm_requests(purpose)`,
	)
	return stmts
}

// migrate provisions missing collections when the database is new or older
// than SchemaVersion. Existing tables are never altered or dropped.
func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= SchemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}
