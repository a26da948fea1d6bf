package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Holisync/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Holisync"
	AppBinary         = "holisync"
	AppID             = "com.github.tartampluch.go-holisync"
	KeyringService    = "com.github.tartampluch.go-holisync"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "holisync.log"
	EnvPrefix         = "HOLISYNC"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion    = "version"
	FlagDebug      = "debug"
	FlagServe      = "serve"
	FlagDryRun     = "dry-run"
	FlagCountry    = "country"
	FlagYear       = "year"
	FlagStoreToken = "store-token"

	FlagDescVersion    = "Show application version and exit"
	FlagDescDebug      = "Enable debug logging to stdout"
	FlagDescServe      = "Keep running: resync periodically and serve the calendar feed"
	FlagDescDryRun     = "Compute predicates without updating playlists"
	FlagDescCountry    = "Holiday country code (overrides HOLISYNC_COUNTRY)"
	FlagDescYear       = "Holiday year (overrides HOLISYNC_YEAR, 0 = current year)"
	FlagDescStoreToken = "Read a token from the terminal and store it in the OS keyring (screenly|calendarific)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgTokenPrompt   = "Enter %s token: "
	MsgTokenStored   = "Token for %s stored in keyring.\n"
)

// -----------------------------------------------------------------------------
// Configuration Keys (viper)
// -----------------------------------------------------------------------------

const (
	KeyScreenlyToken     = "screenly.token"
	KeyCalendarificToken = "calendarific.token"
	KeyScreenlyURL       = "screenly.url"
	KeyCalendarificURL   = "calendarific.url"
	KeyCountry           = "holidays.country"
	KeyYear              = "holidays.year"
	KeyHolidaySource     = "holidays.source"
	KeyDryRun            = "sync.dry_run"
	KeyInterval          = "sync.interval_min"
	KeyPort              = "server.port"
	KeyLanguage          = "i18n.language"
	KeyLogLevel          = "log.level"

	// Environment names of the two secrets are not prefixed.
	EnvScreenlyToken     = "SCREENLY_TOKEN"
	EnvCalendarificToken = "CALENDARIFIC_TOKEN"

	// Keyring user names.
	SecretScreenly     = "screenly"
	SecretCalendarific = "calendarific"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	HolidaySourceCalendarific = "calendarific"
	HolidaySourceOffline      = "offline"

	DefaultScreenlyURL     = "https://api.screenlyapp.com"
	DefaultCalendarificURL = "https://calendarific.com"
	DefaultCountry         = "US"
	DefaultPort            = "18081"
	DefaultRefreshMin      = 60
	DefaultLanguage        = "en"
	DefaultLogLevel        = "info"
	CurrentYear            = 0
)

// SupportedLanguages defines the list of available languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Remote APIs
// -----------------------------------------------------------------------------

const (
	ScreenlyPlaylistsPath  = "/api/v3/playlists/"
	ScreenlyPlaylistPath   = "/api/v3/playlists/%s/"
	ScreenlyAuthScheme     = "Token "
	CalendarificHolidays   = "/api/v2/holidays"
	CalendarificParamKey   = "api_key"
	CalendarificParamCtry  = "country"
	CalendarificParamYear  = "year"
	OfflineCountry         = "US"
	ISODateLayout          = "2006-01-02"
	ISODateLength          = len(ISODateLayout)
	DayDuration            = 24 * time.Hour
	PredicateSingleFormat  = "TRUE AND ($DATE = %d)"
	PredicateRangeFormat   = "TRUE AND ($DATE >= %d) AND ($DATE <= %d)"
	RangeSeparator         = '|'
	OffsetMarker           = '+'
	RangeSegmentCount      = 3
	DefaultAPIRequestLimit = 8 * 1024 * 1024 // 8MB
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Holisync//Engine//EN"
	ICalCalName = "Playlist Holidays"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "holisync"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 1 * time.Hour

	FormatUID = "%s-%d@%s"

	// StubVCalendar is the minimal valid iCalendar object used when no windows are known.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout        = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	SchemeHTTP         = "http"
	SchemeHTTPS        = "https"
	RouteCalendar      = "/calendar.ics"
	RouteHealth        = "/healthz"
	RouteMetrics       = "/metrics"
	AddrSeparator      = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderAuthorization   = "Authorization"
	HeaderAccept          = "Accept"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeJSON            = "application/json"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyEvtSummary      = "event_summary"       // Requires Title
	TKeyEvtSummaryRange = "event_summary_range" // Requires Title, Days
	TKeyEvtDescription  = "event_description"   // Requires Predicate
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrMissingToken     = "configuration error: missing token"
	ErrUnknownSource    = "configuration error: unsupported holiday source"
	ErrUnknownSecret    = "configuration error: unknown secret name"
	ErrConfigLoad       = "configuration error: failed to load settings"
	ErrKeyringStore     = "failed to store token in keyring"
	ErrTokenRead        = "failed to read token from terminal"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrRequestBuild     = "failed to create request"
	ErrNetwork          = "network error during request"
	ErrStatus           = "server returned unexpected status"
	ErrDecode           = "failed to decode response payload"
	ErrEncode           = "failed to encode request payload"
	ErrHolidayFetch     = "failed to fetch holidays"
	ErrPlaylistFetch    = "failed to fetch playlists"
	ErrPlaylistUpdate   = "failed to update playlist"
	ErrOfflineCountry   = "offline holiday source only supports US"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTitleMismatch    = "title does not match range grammar"
	ErrRangeUnresolved  = "range could not be resolved"
	ErrRangePartial     = "range resolved on one side only"
	ErrHolidayNotFound  = "holiday not found"
	ErrPlaylistMissedID = "playlist has no id"
	ErrInvalidSetting   = "invalid setting"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgSyncStarted     = "Synchronization started"
	MsgSyncFinished    = "Synchronization finished"
	MsgSyncFailed      = "Synchronization failed. Check logs."
	MsgSyncReq         = "Sync requested"
	MsgWorkerStart     = "Background worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgHolidaysLoaded  = "Holiday table loaded"
	MsgPlaylistsLoaded = "Playlists loaded"
	MsgSkipDisabled    = "Skipping disabled playlist"
	MsgSkipNoID        = "Skipping playlist without id"
	MsgSkipUnchanged   = "Predicate unchanged"
	MsgSkipMismatch    = "Skipping playlist: title does not match range grammar"
	MsgSkipUnresolved  = "Skipping playlist: neither side of the range resolves to a date"
	MsgSkipPartial     = "Skipping playlist: range resolved on one side only"
	MsgSkipNoHoliday   = "Skipping playlist: no holiday matches title"
	MsgInvertedRange   = "Range ends before it starts"
	MsgPlaylistUpdated = "Playlist updated"
	MsgDryRunUpdate    = "Dry run: playlist would be updated"
	MsgUpdateFailed    = "Playlist update failed"
	MsgBadHolidayDate  = "Ignoring malformed holiday date"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgCtxCancel       = "Context cancelled, shutting down"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgKeyringFallback = "Token not in environment, using keyring"
	MsgKeyringMiss     = "Token retrieval from keyring failed"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgRequestStarted  = "Initiating request"
	MsgErrorStatus     = "Server returned error status"

	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgHealthy      = "ok"
)

// -----------------------------------------------------------------------------
// Fallbacks
// -----------------------------------------------------------------------------

const (
	FallbackSummary      = "%s"
	FallbackSummaryRange = "%s (%d days)"
	FallbackDescription  = "%s"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyMethod    = "method"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeySecret    = "secret"
	LogKeyCountry   = "country"
	LogKeyYear      = "year"
	LogKeySource    = "source"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeyID        = "playlist_id"
	LogKeyTitle     = "title"
	LogKeyPredicate = "predicate"
	LogKeyPrevious  = "previous"
	LogKeyStart     = "start"
	LogKeyEnd       = "end"
	LogKeyDryRun    = "dry_run"
	LogKeyStats     = "stats"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyManual    = "manual"

	LogKeyUpdated      = "updated"
	LogKeyUnchanged    = "unchanged"
	LogKeyDisabled     = "disabled"
	LogKeyMismatch     = "mismatch"
	LogKeyUnresolvable = "unresolvable"
	LogKeyPartial      = "partial"
	LogKeyNoMatch      = "no_match"
	LogKeyFailed       = "failed"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain    = "main"
	CompConfig  = "config"
	CompEngine  = "engine"
	CompFetcher = "fetcher"
	CompServer  = "server"
	CompWorker  = "worker"
	CompI18n    = "i18n"
)
