package driver

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Increment when the ExportPayload format changes.
const exportSchemaVersion uint16 = 1

// ExportPayload is the externally visible surface of one analyzed
// module, serialized for downstream tooling: the bindings in slot
// order plus enough metadata to detect staleness.
type ExportPayload struct {
	Schema     uint16
	Path       string
	SourceHash [32]byte

	// Bindings in module slot order.
	Bindings []string

	NSlots uint32
	Diags  int
}

// BuildExport extracts the payload from an analysis result. Returns nil
// when the result has no executable (analysis failed).
func BuildExport(res *Result) *ExportPayload {
	if res == nil || res.Exec == nil || res.Exec.Module == nil {
		return nil
	}
	file := res.Files.Get(res.FileID)
	p := &ExportPayload{
		Schema:     exportSchemaVersion,
		Path:       res.Path,
		SourceHash: file.Hash,
		NSlots:     res.Exec.NSlots,
		Diags:      res.Bag.Len(),
	}
	atoms := res.Exec.Module.Atoms()
	p.Bindings = make([]string, len(atoms))
	for i, atom := range atoms {
		p.Bindings[i] = res.Names.MustLookup(atom)
	}
	return p
}

// WriteExport serializes the payload to path, atomically.
func WriteExport(path string, p *ExportPayload) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(p); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// Atomic replace.
	return os.Rename(tmp, path)
}

// ReadExport deserializes a payload; (nil, false, nil) when path does
// not exist or carries a different schema version.
func ReadExport(path string) (*ExportPayload, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()
	var p ExportPayload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&p); err != nil {
		return nil, false, err
	}
	if p.Schema != exportSchemaVersion {
		return nil, false, nil
	}
	return &p, true, nil
}
