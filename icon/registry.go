package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Progress
	Info
	Play
	Pause
	Seek
	Cast
	Frame
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "✗",
		kaomoji: "(╯°□°)╯︵ ┻━┻",
		squares: "🟥",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(・_・;)",
		squares: "🟨",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・_・ヾ",
		squares: "🟦",
	},
	Info: {
		emoji:   "ℹ️",
		nerd:    "",
		plain:   "i",
		kaomoji: "(°ロ°)",
		squares: "🟦",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ノ°▽°)ノ",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(￣ー￣)",
		squares: "🟧",
	},
	Seek: {
		emoji:   "⏩",
		nerd:    "",
		plain:   ">>",
		kaomoji: "(=ﾟωﾟ)ﾉ",
		squares: "🟪",
	},
	Cast: {
		emoji:   "📼",
		nerd:    "",
		plain:   "$",
		kaomoji: "( ˘ω˘ )",
		squares: "⬛",
	},
	Frame: {
		emoji:   "🎞️",
		nerd:    "",
		plain:   "#",
		kaomoji: "(☞ﾟヮﾟ)☞",
		squares: "⬜",
	},
}
