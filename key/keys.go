// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Player Construction - these keys define how a playback engine is created for a mount.
const (
	PlayerEngine       = "player.engine"
	PlayerTheme        = "player.theme"
	PlayerColumns      = "player.columns"
	PlayerRows         = "player.rows"
	PlayerFit          = "player.fit"
	PlayerShowControls = "player.show_controls"
	PlayerMPVPath      = "player.mpv_path"
)

// Frame Synchronization - these keys tune readiness polling and seek suppression.
const (
	SyncPollIntervalMs  = "sync.poll_interval_ms"
	SyncMaxPolls        = "sync.max_polls"
	SyncToleranceFrames = "sync.tolerance_frames"
)

// Rendering - these keys configure the frame-by-frame renderer.
const (
	RenderFPS       = "render.fps"
	RenderFormat    = "render.format"
	RenderOpenAfter = "render.open_after"
)

// Probing - these keys govern recording metadata caching.
const (
	ProbeCacheHours = "probe.cache_hours"
)

// Recent Recordings - these keys manage the registry used for suggestions.
const (
	RecentRemember = "recent.remember"
	RecentLimit    = "recent.limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

// Networking - these keys configure how remote recordings are fetched.
const (
	NetworkFingerprint = "network.fingerprint"
	NetworkCacheHours  = "network.cache_hours"
)
