package source

type (
	// FileID identifies a file inside a FileSet.
	FileID uint32
	// FileFlags keeps load-time metadata.
	FileFlags uint8
)

// NoFileID is the file of spans that belong to no source.
const NoFileID FileID = 0

const (
	// FileVirtual marks content that did not come from disk (CLI argument, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded source: a design description or an expression snippet.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Line returns the text of line n (1-based) without the trailing newline.
func (f *File) Line(n uint32) string {
	if f == nil || n == 0 {
		return ""
	}
	var start int
	if n > 1 {
		if int(n-2) >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n-1) < len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end || start > len(f.Content) {
		return ""
	}
	return string(f.Content[start:end])
}

// Text returns the bytes covered by sp, clamped to the file.
func (f *File) Text(sp Span) string {
	if f == nil {
		return ""
	}
	start, end := int(sp.Start), int(sp.End)
	if start > len(f.Content) {
		return ""
	}
	if end > len(f.Content) {
		end = len(f.Content)
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}
