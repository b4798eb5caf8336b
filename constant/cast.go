package constant

// Recording defaults applied when neither the header nor the configuration specifies them.
const (
	DefaultColumns = 80
	DefaultRows    = 24
	DefaultFPS     = 30
)

// Composition geometry used by the renderer when sizing output frames.
const (
	CompositionWidth  = 1920
	CompositionHeight = 1080
)
