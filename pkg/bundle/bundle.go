// Package bundle stores an assembled script as a zip archive: a manifest.json
// describing every procedure and one .bin entry holding each procedure's
// bytecode.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"scdtool/pkg/scd"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Extension is the conventional file extension of a bundle.
const Extension = ".scdz"

const (
	manifestName  = "manifest.json"
	formatVersion = 1
)

// Entry describes one procedure stored in the archive.
type Entry struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Name  string `json:"name"`
	File  string `json:"file"`
	Size  int    `json:"size"`
}

// Manifest is the JSON envelope of a bundle.
type Manifest struct {
	Format     int       `json:"format"`
	Engine     string    `json:"engine"`
	Source     string    `json:"source,omitempty"`
	Created    time.Time `json:"created"`
	Procedures []Entry   `json:"procedures"`
}

func entryFile(p *scd.Procedure) string {
	return fmt.Sprintf("%s/%02d.bin", p.Kind, p.Index)
}

// Encode serialises s into an in-memory zip archive. source is recorded in
// the manifest for reference only.
func Encode(s *scd.Script, source string) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	m := Manifest{
		Format:  formatVersion,
		Engine:  s.Version.String(),
		Source:  source,
		Created: time.Now().UTC(),
	}
	for _, p := range s.Procedures {
		m.Procedures = append(m.Procedures, Entry{
			Kind:  p.Kind.String(),
			Index: p.Index,
			Name:  p.Name,
			File:  entryFile(p),
			Size:  len(p.Data),
		})
	}

	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal manifest")
	}
	if err := writeZipEntry(zw, manifestName, manifest); err != nil {
		return nil, err
	}
	for _, p := range s.Procedures {
		if err := writeZipEntry(zw, entryFile(p), p.Data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "close zip")
	}
	return buf.Bytes(), nil
}

// Decode is the inverse of Encode. Procedures come back ordered by kind and
// index; gaps in the index sequence of a kind are an error.
func Decode(data []byte) (*scd.Script, *Manifest, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, errors.Wrap(err, "open zip")
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	raw, err := readZipEntry(fileMap, manifestName)
	if err != nil {
		return nil, nil, err
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, errors.Wrap(err, "unmarshal manifest")
	}
	if m.Format != formatVersion {
		return nil, nil, errors.Errorf("unsupported bundle format %d", m.Format)
	}
	version, err := scd.ParseVersion(m.Engine)
	if err != nil {
		return nil, nil, err
	}

	type loaded struct {
		kind  scd.Kind
		entry Entry
	}
	entries := make([]loaded, 0, len(m.Procedures))
	for _, e := range m.Procedures {
		kind, err := scd.ParseKind(e.Kind)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, loaded{kind, e})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].kind != entries[j].kind {
			return entries[i].kind < entries[j].kind
		}
		return entries[i].entry.Index < entries[j].entry.Index
	})

	s := &scd.Script{Version: version}
	for _, l := range entries {
		body, err := readZipEntry(fileMap, l.entry.File)
		if err != nil {
			return nil, nil, err
		}
		if len(body) != l.entry.Size {
			return nil, nil, errors.Errorf("%s: manifest size %d does not match %d stored bytes", l.entry.File, l.entry.Size, len(body))
		}
		p := s.Add(l.kind, l.entry.Name, body)
		if p.Index != l.entry.Index {
			return nil, nil, errors.Errorf("%s procedure %d is missing", l.kind, p.Index)
		}
	}
	logrus.Debugf("decoded bundle with %d procedures for %s", len(s.Procedures), version)
	return s, &m, nil
}

// WriteFile writes the bundle of s to path.
func WriteFile(path string, s *scd.Script, source string) error {
	data, err := Encode(s, source)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// ReadFile reads a bundle written by WriteFile.
func ReadFile(path string) (*scd.Script, *Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading %s", path)
	}
	s, m, err := Decode(data)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decoding %s", path)
	}
	return s, m, nil
}

// IsBundle reports whether data starts with a zip local file header.
func IsBundle(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 3 && data[3] == 4
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create zip entry %q", name)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, errors.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open zip entry %q", name)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
