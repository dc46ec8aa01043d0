// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists executed searches and their projected papers to
// a SQLite database, and exports result sets as human-readable JSON.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// Store manages the search history database.
type Store struct {
	db *sql.DB
}

// SearchRecord is one archived search.
type SearchRecord struct {
	ID          int64     `json:"id"`
	Query       string    `json:"query"`
	YearFilter  string    `json:"year_filter,omitempty"`
	MaxResults  string    `json:"max_results"`
	ResultCount int       `json:"result_count"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// Open opens or creates the archive database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS searches (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	query        TEXT NOT NULL,
	year_filter  TEXT NOT NULL DEFAULT '',
	max_results  TEXT NOT NULL DEFAULT '',
	result_count INTEGER NOT NULL,
	executed_at  TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS papers (
	search_id        INTEGER NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
	position         INTEGER NOT NULL,
	openalex_id      TEXT NOT NULL,
	title            TEXT NOT NULL,
	authors          TEXT NOT NULL,
	publication_year INTEGER,
	publication_date TEXT,
	doi              TEXT,
	abstract         TEXT,
	citation_count   INTEGER,
	pdf_url          TEXT,
	open_access      INTEGER NOT NULL DEFAULT 0,
	primary_location TEXT,
	PRIMARY KEY (search_id, position)
);
CREATE INDEX IF NOT EXISTS idx_papers_search ON papers(search_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// RecordSearch archives one executed search with its results and returns the
// new record's ID.
func (s *Store) RecordSearch(query, yearFilter, maxResults string, papers []types.Paper) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO searches (query, year_filter, max_results, result_count, executed_at) VALUES (?, ?, ?, ?, ?)`,
		query, yearFilter, maxResults, len(papers), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting search: %w", err)
	}
	searchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading search id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO papers
		(search_id, position, openalex_id, title, authors, publication_year, publication_date,
		 doi, abstract, citation_count, pdf_url, open_access, primary_location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing paper insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authorsJSON, err := json.Marshal(p.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for paper %d: %w", i, err)
		}
		_, err = stmt.Exec(searchID, i, p.ID, p.Title, string(authorsJSON),
			p.PublicationYear, p.PublicationDate, p.DOI, p.Abstract,
			p.CitationCount, p.PDFURL, p.OpenAccess, p.PrimaryLocation)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return searchID, nil
}

// ListSearches returns the most recent archived searches, newest first.
// limit <= 0 returns everything.
func (s *Store) ListSearches(limit int) ([]SearchRecord, error) {
	q := `SELECT id, query, year_filter, max_results, result_count, executed_at
		FROM searches ORDER BY executed_at DESC, id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(q+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var r SearchRecord
		if err := rows.Scan(&r.ID, &r.Query, &r.YearFilter, &r.MaxResults, &r.ResultCount, &r.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Papers returns the archived papers for one search, in result order.
func (s *Store) Papers(searchID int64) ([]types.Paper, error) {
	rows, err := s.db.Query(`SELECT openalex_id, title, authors, publication_year,
		publication_date, doi, abstract, citation_count, pdf_url, open_access, primary_location
		FROM papers WHERE search_id = ? ORDER BY position`, searchID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		var authorsJSON string
		err := rows.Scan(&p.ID, &p.Title, &authorsJSON, &p.PublicationYear,
			&p.PublicationDate, &p.DOI, &p.Abstract, &p.CitationCount,
			&p.PDFURL, &p.OpenAccess, &p.PrimaryLocation)
		if err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
