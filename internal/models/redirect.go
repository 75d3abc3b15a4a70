package models

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/shortkeyhq/shortkey/internal/errs"
)

type Redirect struct {
	ID           int64     `json:"id"`
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	RedirectHost string    `json:"redirect_host"`
	Visits       int64     `json:"visits"`
	CreatedBy    int64     `json:"created_by"`
	CreatedUTC   time.Time `json:"created_utc"`
	UpdatedUTC   time.Time `json:"updated_utc"`
}

const redirectColumns = `id, key, url, redirect_host, visits, created_by, created_utc, updated_utc`

// CreateRedirect inserts a redirect and re-reads it for canonical state.
// A key already registered under the same host yields a Conflict.
func CreateRedirect(db *sql.DB, key, url, host string, createdBy int64) (*Redirect, error) {
	res, err := db.Exec(
		`INSERT INTO redirects (key, url, redirect_host, created_by) VALUES (?, ?, ?, ?)`,
		key, url, host, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.Wrap(errs.Conflict, "redirect key already exists", err)
		}
		return nil, errs.Wrap(errs.Internal, "failed to create redirect", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to create redirect", err)
	}
	if n != 1 {
		return nil, errs.New(errs.Validation, "redirect insert affected an unexpected number of rows")
	}

	return GetRedirect(db, key, host)
}

// UpdateRedirect changes the target URL of an existing redirect.
func UpdateRedirect(db *sql.DB, key, url, host string) (*Redirect, error) {
	res, err := db.Exec(
		`UPDATE redirects SET url = ?, updated_utc = CURRENT_TIMESTAMP WHERE key = ? AND redirect_host = ?`,
		url, key, host,
	)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to update redirect", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to update redirect", err)
	}
	if n == 0 {
		return nil, errs.New(errs.NotFound, "redirect not found")
	}

	return GetRedirect(db, key, host)
}

func DeleteRedirect(db *sql.DB, key, host string) error {
	res, err := db.Exec(
		`DELETE FROM redirects WHERE key = ? AND redirect_host = ?`,
		key, host,
	)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to delete redirect", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to delete redirect", err)
	}
	if n == 0 {
		return errs.New(errs.NotFound, "redirect not found")
	}
	return nil
}

func GetRedirect(db *sql.DB, key, host string) (*Redirect, error) {
	rd := &Redirect{}
	row := db.QueryRow(
		`SELECT `+redirectColumns+` FROM redirects WHERE key = ? AND redirect_host = ? LIMIT 1`,
		key, host,
	)
	if err := scanRedirect(row, rd); err != nil {
		if err == sql.ErrNoRows {
			return nil, errs.New(errs.NotFound, "redirect not found")
		}
		return nil, errs.Wrap(errs.Internal, "failed to get redirect", err)
	}
	return rd, nil
}

// ListRedirects returns every redirect across all hosts. A row that fails
// to scan is logged and skipped rather than failing the whole listing.
func ListRedirects(db *sql.DB) ([]Redirect, error) {
	rows, err := db.Query(`SELECT ` + redirectColumns + ` FROM redirects ORDER BY created_utc DESC, id DESC`)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to list redirects", err)
	}
	defer rows.Close()

	var redirects []Redirect
	for rows.Next() {
		var rd Redirect
		if err := rows.Scan(&rd.ID, &rd.Key, &rd.URL, &rd.RedirectHost, &rd.Visits, &rd.CreatedBy, &rd.CreatedUTC, &rd.UpdatedUTC); err != nil {
			log.Printf("models: skipping unreadable redirect row: %v", err)
			continue
		}
		redirects = append(redirects, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to list redirects", err)
	}
	return redirects, nil
}

// IncrementVisits bumps the visit counter by n. Host-scoped so a bump can
// never land on another host's row.
func IncrementVisits(db *sql.DB, key, host string, n int64) error {
	res, err := db.Exec(
		`UPDATE redirects SET visits = visits + ? WHERE key = ? AND redirect_host = ?`,
		n, key, host,
	)
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to increment visits", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.Internal, "failed to increment visits", err)
	}
	if affected == 0 {
		return errs.New(errs.NotFound, "redirect not found")
	}
	return nil
}

func scanRedirect(row *sql.Row, rd *Redirect) error {
	return row.Scan(&rd.ID, &rd.Key, &rd.URL, &rd.RedirectHost, &rd.Visits, &rd.CreatedBy, &rd.CreatedUTC, &rd.UpdatedUTC)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
