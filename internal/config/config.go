package config

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Host            string
	DBPath          string
	DBSnapshotURL   string
	DBSnapshotToken string

	CookieHashKey  []byte
	CookieBlockKey []byte
	JWTPublicKey   ed25519.PublicKey
	JWTPrivateKey  ed25519.PrivateKey

	DiscordClientID     string
	DiscordClientSecret string
	DiscordGuilds       []string

	FlushInterval time.Duration
	BufferSize    int
}

func Load() (*Config, error) {
	// Load .env if present; the real environment wins.
	_ = godotenv.Load()

	cookieKey := os.Getenv("COOKIE_ENCRYPTION_KEY")
	if cookieKey == "" {
		return nil, fmt.Errorf("COOKIE_ENCRYPTION_KEY is required")
	}
	if len(cookieKey) < 64 {
		return nil, fmt.Errorf("COOKIE_ENCRYPTION_KEY must be at least 64 bytes, got %d", len(cookieKey))
	}

	pub, priv, err := loadJWTKeys()
	if err != nil {
		return nil, err
	}

	clientID := os.Getenv("DISCORD_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("DISCORD_CLIENT_ID is required")
	}
	clientSecret := os.Getenv("DISCORD_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, fmt.Errorf("DISCORD_CLIENT_SECRET is required")
	}

	var guilds []string
	for _, g := range strings.Split(os.Getenv("DISCORD_GUILDS"), ",") {
		g = strings.TrimSpace(g)
		if g != "" {
			guilds = append(guilds, g)
		}
	}

	cfg := &Config{
		Port:            envOrDefault("PORT", "8080"),
		Host:            os.Getenv("HOST"),
		DBPath:          envOrDefault("DB_PATH", "./redirects.db"),
		DBSnapshotURL:   os.Getenv("DB_SNAPSHOT_URL"),
		DBSnapshotToken: os.Getenv("DB_SNAPSHOT_TOKEN"),

		CookieHashKey:  []byte(cookieKey[:32]),
		CookieBlockKey: []byte(cookieKey[32:64]),
		JWTPublicKey:   pub,
		JWTPrivateKey:  priv,

		DiscordClientID:     clientID,
		DiscordClientSecret: clientSecret,
		DiscordGuilds:       guilds,

		FlushInterval: parseDuration("FLUSH_INTERVAL", 15*time.Second),
		BufferSize:    parseInt("BUFFER_SIZE", 10000),
	}

	if cfg.FlushInterval <= 0 {
		return nil, fmt.Errorf("FLUSH_INTERVAL must be positive")
	}
	if cfg.BufferSize <= 0 {
		return nil, fmt.Errorf("BUFFER_SIZE must be positive")
	}

	return cfg, nil
}

// loadJWTKeys parses the Ed25519 session-signing key pair up front so a
// malformed key aborts startup instead of failing on the first login.
func loadJWTKeys() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pubPEM := os.Getenv("JWT_PUBLIC_KEY")
	if pubPEM == "" {
		return nil, nil, fmt.Errorf("JWT_PUBLIC_KEY is required")
	}
	privPEM := os.Getenv("JWT_PRIVATE_KEY")
	if privPEM == "" {
		return nil, nil, fmt.Errorf("JWT_PRIVATE_KEY is required")
	}

	pub, err := jwt.ParseEdPublicKeyFromPEM([]byte(pubPEM))
	if err != nil {
		return nil, nil, fmt.Errorf("parse JWT_PUBLIC_KEY: %w", err)
	}
	pubKey, ok := pub.(ed25519.PublicKey)
	if !ok {
		return nil, nil, fmt.Errorf("JWT_PUBLIC_KEY is not an Ed25519 key")
	}

	priv, err := jwt.ParseEdPrivateKeyFromPEM([]byte(privPEM))
	if err != nil {
		return nil, nil, fmt.Errorf("parse JWT_PRIVATE_KEY: %w", err)
	}
	privKey, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, nil, fmt.Errorf("JWT_PRIVATE_KEY is not an Ed25519 key")
	}

	return pubKey, privKey, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
