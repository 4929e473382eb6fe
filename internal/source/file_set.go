package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every file of a compilation and maps spans back to text.
type FileSet struct {
	files   []File
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{files: make([]File, 0, 4)}
}

// SetBaseDir задаёт каталог, относительно которого печатаются пути.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.baseDir = dir
}

func (fs *FileSet) BaseDir() string {
	return fs.baseDir
}

// Add registers content under path and returns its id. Content is stripped of
// a UTF-8 BOM, CRLF becomes LF and text is normalized to Unicode NFC, so spans
// always index the normalized bytes.
// Adding a path twice registers a second file under a fresh id.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, crlf := normalizeCRLF(content)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	content, nfc := normalizeNFC(content)
	if nfc {
		flags |= FileNormalizedNFC
	}

	id, err := safecast.Conv[FileID](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	path = normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	return id
}

// AddVirtual registers in-memory content.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path from disk.
func (fs *FileSet) Load(path string) (FileID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	if _, err := safecast.Conv[uint32](len(data)); err != nil {
		return 0, fmt.Errorf("load %s: file too large: %w", path, err)
	}
	return fs.Add(path, data, 0), nil
}

func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Resolve converts a span to start and end line/column pairs.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the bytes covered by span, clamped to the file.
func (f *File) Text(span Span) string {
	n := uint32(len(f.Content))
	start, end := min(span.Start, n), min(span.End, n)
	if start > end {
		start = end
	}
	return string(f.Content[start:end])
}

// LineCount returns the number of lines, a trailing line without '\n' included.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// GetLine returns the 1-based line without its newline.
func (f *File) GetLine(line uint32) string {
	if line == 0 || int(line) > f.LineCount() {
		return ""
	}
	start := lineStart(f.LineIdx, int(line-1))
	end := uint32(len(f.Content))
	if int(line-1) < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return string(f.Content[start:end])
}

// LineSpan returns the byte range of the line holding off, without its newline.
func (f *File) LineSpan(off uint32) Span {
	line := lineOf(f.LineIdx, off)
	start := lineStart(f.LineIdx, line)
	end := uint32(len(f.Content))
	if line < len(f.LineIdx) {
		end = f.LineIdx[line]
	}
	return Span{File: f.ID, Start: start, End: end}
}

// FormatPath renders the file path according to mode: "absolute", "relative", "basename" or "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	return formatPath(f.Path, mode, baseDir, f.Flags&FileVirtual != 0)
}

// LineIndex returns the 0-based line holding off.
func (f *File) LineIndex(off uint32) int {
	return lineOf(f.LineIdx, off)
}

// LineStart returns the byte offset where the 0-based line begins.
func (f *File) LineStart(line int) uint32 {
	return lineStart(f.LineIdx, line)
}
