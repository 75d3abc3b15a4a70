package visits

import (
	"strings"

	"github.com/mssola/useragent"
)

// Substrings matched case-insensitively against the User-Agent. Link
// previews and crawlers resolve redirects without a human behind them, so
// they are excluded from visit counts.
var botSignatures = []string{
	"bot",
	"spider",
	"crawl",

	// Link-preview / unfurler fetchers
	"facebookexternalhit",
	"whatsapp",
	"slackbot",
	"telegrambot",
	"twitterbot",
	"linkedinbot",
	"discordbot",
	"preview",

	// HTTP client libraries (not real browsers)
	"go-http-client/",
	"curl/",
	"wget/",
	"python-requests/",
	"python-urllib/",
	"okhttp/",
	"java/",

	// Headless / renderers
	"headlesschrome/",
	"phantomjs",
	"chrome-lighthouse",
}

// IsBot returns true if the user-agent looks like a bot or link-preview fetcher.
func IsBot(rawUA string) bool {
	ua := useragent.New(rawUA)
	if ua.Bot() {
		return true
	}
	lower := strings.ToLower(rawUA)
	for _, sig := range botSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
