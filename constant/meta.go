// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// DrillBot is the canonical application identifier used for filesystem paths and CLI branding.
	DrillBot = "drillbot"

	// Version is the current application semantic version string.
	Version = "1.2.0"

	// UserAgent is the default HTTP User-Agent string used for network requests to extraction backends.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// TikTokOrigin is the Referer/Origin value expected by TikTok media CDNs.
	TikTokOrigin = "https://www.tiktok.com/"
)
