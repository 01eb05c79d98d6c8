package diagfmt

// PathMode says how file paths are shown.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // as stored in the FileSet
	PathModeAbsolute
	PathModeRelative // relative to BaseDir
	PathModeBasename
)

func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute", "abs":
		return PathModeAbsolute, true
	case "relative", "rel":
		return PathModeRelative, true
	case "basename", "base":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string
	ShowNotes bool
	Max       int // 0 - без ограничения
}

type JSONOpts struct {
	IncludePositions bool // line/col в дополнение к байтам
	PathMode         PathMode
	BaseDir          string
	Max              int
	IncludeNotes     bool
}
