package models

import (
	"database/sql"
	"testing"

	"github.com/shortkeyhq/shortkey/internal/db"
	"github.com/shortkeyhq/shortkey/internal/errs"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testUser(t *testing.T, database *sql.DB) int64 {
	t.Helper()
	u, err := UpsertUser(database, "100000000000000001", "tester")
	if err != nil {
		t.Fatal(err)
	}
	return u.ID
}

func TestCreateRedirect_RoundTrip(t *testing.T) {
	database := testDB(t)
	uid := testUser(t, database)

	created, err := CreateRedirect(database, "docs", "http://example.com/docs", "go.example.com", uid)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Error("created redirect has no id")
	}
	if created.Visits != 0 {
		t.Errorf("visits = %d, want 0", created.Visits)
	}
	if created.CreatedBy != uid {
		t.Errorf("created_by = %d, want %d", created.CreatedBy, uid)
	}

	got, err := GetRedirect(database, "docs", "go.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.URL != "http://example.com/docs" {
		t.Errorf("url = %q", got.URL)
	}
	if got.ID != created.ID {
		t.Errorf("id = %d, want %d", got.ID, created.ID)
	}
}

func TestCreateRedirect_DuplicateKeyConflict(t *testing.T) {
	database := testDB(t)
	uid := testUser(t, database)

	if _, err := CreateRedirect(database, "docs", "http://one.example.com", "go.example.com", uid); err != nil {
		t.Fatal(err)
	}

	_, err := CreateRedirect(database, "docs", "http://two.example.com", "go.example.com", uid)
	if errs.CodeOf(err) != errs.Conflict {
		t.Fatalf("error code = %q, want conflict (err: %v)", errs.CodeOf(err), err)
	}

	// Existing row must be unchanged.
	got, err := GetRedirect(database, "docs", "go.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.URL != "http://one.example.com" {
		t.Errorf("url after failed create = %q, want original", got.URL)
	}
}

func TestCreateRedirect_SameKeyDifferentHost(t *testing.T) {
	database := testDB(t)
	uid := testUser(t, database)

	if _, err := CreateRedirect(database, "docs", "http://one.example.com", "a.example.com", uid); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateRedirect(database, "docs", "http://two.example.com", "b.example.com", uid); err != nil {
		t.Fatalf("same key under a different host should be allowed: %v", err)
	}

	got, err := GetRedirect(database, "docs", "b.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.URL != "http://two.example.com" {
		t.Errorf("url = %q", got.URL)
	}
}

func TestUpdateRedirect(t *testing.T) {
	database := testDB(t)
	uid := testUser(t, database)

	if _, err := CreateRedirect(database, "docs", "http://old.example.com", "go.example.com", uid); err != nil {
		t.Fatal(err)
	}

	updated, err := UpdateRedirect(database, "docs", "http://new.example.com", "go.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if updated.URL != "http://new.example.com" {
		t.Errorf("url = %q", updated.URL)
	}
}

func TestUpdateRedirect_Missing(t *testing.T) {
	database := testDB(t)
	testUser(t, database)

	_, err := UpdateRedirect(database, "missing", "http://example.com", "go.example.com")
	if errs.CodeOf(err) != errs.NotFound {
		t.Fatalf("error code = %q, want not_found", errs.CodeOf(err))
	}
}

func TestDeleteRedirect(t *testing.T) {
	database := testDB(t)
	uid := testUser(t, database)

	if _, err := CreateRedirect(database, "docs", "http://example.com", "go.example.com", uid); err != nil {
		t.Fatal(err)
	}
	if err := DeleteRedirect(database, "docs", "go.example.com"); err != nil {
		t.Fatal(err)
	}

	_, err := GetRedirect(database, "docs", "go.example.com")
	if errs.CodeOf(err) != errs.NotFound {
		t.Fatalf("get after delete = %q, want not_found", errs.CodeOf(err))
	}
}

func TestDeleteRedirect_HostScoped(t *testing.T) {
	database := testDB(t)
	uid := testUser(t, database)

	if _, err := CreateRedirect(database, "docs", "http://example.com", "a.example.com", uid); err != nil {
		t.Fatal(err)
	}

	// Deleting under a different host must not touch a.example.com's row.
	if err := DeleteRedirect(database, "docs", "b.example.com"); errs.CodeOf(err) != errs.NotFound {
		t.Fatalf("delete under other host = %v, want not_found", err)
	}
	if _, err := GetRedirect(database, "docs", "a.example.com"); err != nil {
		t.Errorf("row under original host gone: %v", err)
	}
}

func TestListRedirects(t *testing.T) {
	database := testDB(t)
	uid := testUser(t, database)

	for _, host := range []string{"a.example.com", "b.example.com"} {
		if _, err := CreateRedirect(database, "docs", "http://example.com", host, uid); err != nil {
			t.Fatal(err)
		}
	}

	all, err := ListRedirects(database)
	if err != nil {
		t.Fatal(err)
	}
	// The listing is intentionally unscoped: every host's redirects appear.
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
}

func TestIncrementVisits(t *testing.T) {
	database := testDB(t)
	uid := testUser(t, database)

	if _, err := CreateRedirect(database, "docs", "http://example.com", "go.example.com", uid); err != nil {
		t.Fatal(err)
	}

	if err := IncrementVisits(database, "docs", "go.example.com", 3); err != nil {
		t.Fatal(err)
	}

	got, err := GetRedirect(database, "docs", "go.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.Visits != 3 {
		t.Errorf("visits = %d, want 3", got.Visits)
	}
}

func TestIncrementVisits_Missing(t *testing.T) {
	database := testDB(t)
	testUser(t, database)

	err := IncrementVisits(database, "missing", "go.example.com", 1)
	if errs.CodeOf(err) != errs.NotFound {
		t.Fatalf("error code = %q, want not_found", errs.CodeOf(err))
	}
}
