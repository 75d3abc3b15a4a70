package models

import (
	"database/sql"
	"time"

	"github.com/shortkeyhq/shortkey/internal/errs"
)

type User struct {
	ID               int64     `json:"id"`
	DiscordSnowflake string    `json:"discord_snowflake"`
	DiscordUsername  string    `json:"discord_username"`
	CreatedUTC       time.Time `json:"created_utc"`
	UpdatedUTC       time.Time `json:"updated_utc"`
}

// UpsertUser creates a user keyed by Discord snowflake, or refreshes the
// username of an existing one. Called on every successful OAuth callback.
func UpsertUser(db *sql.DB, snowflake, username string) (*User, error) {
	res, err := db.Exec(
		`INSERT INTO users (discord_snowflake, discord_username) VALUES (?, ?)
		 ON CONFLICT(discord_snowflake) DO UPDATE SET
		   discord_username = excluded.discord_username,
		   updated_utc = CURRENT_TIMESTAMP`,
		snowflake, username,
	)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to upsert user", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to upsert user", err)
	}
	if n != 1 {
		return nil, errs.New(errs.Internal, "user upsert affected an unexpected number of rows")
	}

	return GetUserByDiscordID(db, snowflake)
}

func GetUserByDiscordID(db *sql.DB, snowflake string) (*User, error) {
	u := &User{}
	err := db.QueryRow(
		`SELECT id, discord_snowflake, discord_username, created_utc, updated_utc
		 FROM users WHERE discord_snowflake = ? LIMIT 1`,
		snowflake,
	).Scan(&u.ID, &u.DiscordSnowflake, &u.DiscordUsername, &u.CreatedUTC, &u.UpdatedUTC)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errs.New(errs.NotFound, "user not found")
		}
		return nil, errs.Wrap(errs.Internal, "failed to get user", err)
	}
	return u, nil
}
