package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/contralens/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/contralens/internal/core/domain"
	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ContractStore = (*Store)(nil)

// Store is the SQLite-backed contract store. It persists contracts, their
// latest risk report, and chat history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store under the specified data directory.
// If dataDir is empty, defaults to ~/.contralens/data/contralens.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".contralens", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "contralens.db")

	// WAL mode for better concurrency between CLI invocations and the watcher.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveContract stores or updates a contract.
func (s *Store) SaveContract(ctx context.Context, contract *domain.Contract) error {
	now := time.Now().UTC()
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, title, filename, language, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			filename = excluded.filename,
			language = excluded.language,
			text = excluded.text,
			updated_at = excluded.updated_at
	`, contract.ID, contract.Title, contract.Filename, contract.Language,
		contract.Text, contract.CreatedAt, contract.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving contract: %w", err)
	}
	return nil
}

// GetContract retrieves a contract by ID. The Indexed flag is always false
// from storage; indices are in-memory and rebuilt on demand.
func (s *Store) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, filename, language, text, created_at, updated_at
		FROM contracts WHERE id = ?
	`, id)

	contract, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning contract: %w", err)
	}
	return contract, nil
}

// ListContracts returns all contracts, newest first.
func (s *Store) ListContracts(ctx context.Context) ([]domain.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, filename, language, text, created_at, updated_at
		FROM contracts ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}
		contracts = append(contracts, *contract)
	}
	return contracts, rows.Err()
}

// DeleteContract removes a contract, its report and its chat history.
func (s *Store) DeleteContract(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM contracts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting contract: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	// Exchanges have no foreign key (cross-contract questions use an empty
	// contract id), so clean up explicitly.
	if _, err := s.db.ExecContext(ctx, "DELETE FROM exchanges WHERE contract_id = ?", id); err != nil {
		return fmt.Errorf("deleting exchanges: %w", err)
	}
	return nil
}

// SaveReport stores the latest risk report, replacing any previous one.
func (s *Store) SaveReport(ctx context.Context, contractID string, report *domain.RiskReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (contract_id, report, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(contract_id) DO UPDATE SET
			report = excluded.report,
			created_at = excluded.created_at
	`, contractID, string(payload), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// GetReport retrieves the latest risk report for a contract.
func (s *Store) GetReport(ctx context.Context, contractID string) (*domain.RiskReport, error) {
	var payload string
	row := s.db.QueryRowContext(ctx, "SELECT report FROM reports WHERE contract_id = ?", contractID)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	var report domain.RiskReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("unmarshalling report: %w", err)
	}
	return &report, nil
}

// SaveExchange appends a question/answer pair to the chat history.
func (s *Store) SaveExchange(ctx context.Context, exchange *domain.Exchange) error {
	answer, err := json.Marshal(exchange.Answer)
	if err != nil {
		return fmt.Errorf("marshalling answer: %w", err)
	}

	if exchange.AskedAt.IsZero() {
		exchange.AskedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exchanges (id, contract_id, question, answer, asked_at)
		VALUES (?, ?, ?, ?, ?)
	`, exchange.ID, exchange.ContractID, exchange.Question, string(answer), exchange.AskedAt)

	if err != nil {
		return fmt.Errorf("saving exchange: %w", err)
	}
	return nil
}

// ListExchanges returns the chat history for a contract, oldest first.
func (s *Store) ListExchanges(ctx context.Context, contractID string) ([]domain.Exchange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contract_id, question, answer, asked_at
		FROM exchanges WHERE contract_id = ? ORDER BY asked_at ASC
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("listing exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []domain.Exchange
	for rows.Next() {
		var e domain.Exchange
		var answer string
		var askedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.ContractID, &e.Question, &answer, &askedAt); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		if err := json.Unmarshal([]byte(answer), &e.Answer); err != nil {
			return nil, fmt.Errorf("unmarshalling answer: %w", err)
		}
		if askedAt.Valid {
			e.AskedAt = askedAt.Time
		}
		exchanges = append(exchanges, e)
	}
	return exchanges, rows.Err()
}

// scanner abstracts over *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

// scanContract reads one contract row.
func scanContract(row scanner) (*domain.Contract, error) {
	var c domain.Contract
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.Title, &c.Filename, &c.Language, &c.Text,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}
