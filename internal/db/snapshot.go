package db

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

// RestoreSnapshot seeds the local database file from a remote snapshot
// before the first open. It is a no-op when no snapshot URL is configured
// or the local file already exists; there is no ongoing sync afterwards.
func RestoreSnapshot(path, snapshotURL, token string) error {
	if snapshotURL == "" || path == ":memory:" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	req, err := http.NewRequest(http.MethodGet, snapshotURL, nil)
	if err != nil {
		return fmt.Errorf("build snapshot request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch snapshot: unexpected status %s", resp.Status)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move snapshot into place: %w", err)
	}

	log.Printf("db: restored snapshot to %s", path)
	return nil
}
