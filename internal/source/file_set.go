package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans to
// line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file and returns its new FileID. A new ID is created even
// if a file with the same path was added before.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[path] = id
	return id
}

// AddVirtual stores an in-memory file (test, REPL, stdin).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path from disk and adds it to the set.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.Add(path, content, 0), nil
}

// Get returns the file for id, or nil if the id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Resolve maps a span to the 1-based line/column of its start and end.
func (fs *FileSet) Resolve(sp Span) (LineCol, LineCol) {
	file := fs.Get(sp.File)
	if file == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return resolveOffset(file, sp.Start), resolveOffset(file, sp.End)
}

func resolveOffset(file *File, off uint32) LineCol {
	// Binary search for the last line start <= off.
	lo, hi := 0, len(file.LineIdx)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if file.LineIdx[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	lineStart := file.LineIdx[lo]
	return LineCol{
		Line: uint32(lo) + 1,
		Col:  off - lineStart + 1,
	}
}

// buildLineIndex records the byte offset of every line start.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 1, 16)
	idx[0] = 0
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)+1)
		}
	}
	return idx
}

// Line returns the raw bytes of the 1-based line, without the newline.
func Line(file *File, line uint32) []byte {
	if file == nil || line == 0 || int(line) > len(file.LineIdx) {
		return nil
	}
	start := file.LineIdx[line-1]
	end := uint32(len(file.Content))
	if int(line) < len(file.LineIdx) {
		end = file.LineIdx[line] - 1
	}
	if end > uint32(len(file.Content)) {
		end = uint32(len(file.Content))
	}
	if start > end {
		start = end
	}
	return file.Content[start:end]
}
