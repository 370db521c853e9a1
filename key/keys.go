// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Bot Transport - these keys configure the Telegram connection and update delivery mode.
const (
	BotToken          = "bot.token"
	BotWebhookURL     = "bot.webhook_url"
	BotWebhookAddr    = "bot.webhook_addr"
	BotErrorNoticeTTL = "bot.error_notice_ttl"
)

// Resolution Cascade - these keys govern the provider fallback order and attempt budget.
const (
	ResolveProviders      = "resolve.providers"
	ResolveAttemptTimeout = "resolve.attempt_timeout"
)

// Byte Fetching - these keys parametrize the retry/proxy escalation for media downloads.
const (
	FetchMaxAttempts    = "fetch.max_attempts"
	FetchBaseDelay      = "fetch.base_delay"
	FetchProxyTemplate  = "fetch.proxy_template"
	FetchTikTokProxies  = "fetch.tiktok_proxies"
	FetchTikTokCDNHosts = "fetch.tiktok_cdn_hosts"
)

// Media Selection - these keys bound what is sent back to the chat.
const (
	SelectorAlbumCap = "selector.album_cap"
)

// Language Model - these keys configure the OpenAI-compatible backend used for poll generation and translation.
const (
	LLMBaseURL = "llm.base_url"
	LLMAPIKey  = "llm.api_key"
	LLMModel   = "llm.model"
)

// Translation - these keys configure the caption translation glue.
const (
	TranslateTarget = "translate.target"
)

// Logging - these keys configure the persistent diagnostic log output.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Behavior - these keys configure terminal presentation and update checks.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
