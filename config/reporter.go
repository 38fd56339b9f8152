package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/maruel/natural"

	"lwcc/common"
	"lwcc/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to the temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

type entryKind int

const (
	// bytes kept in memory
	entryData entryKind = iota
	// file or directory read when report is closed
	entryFile
	// snapshot of file or directory taken when it was stored
	entrySnapshot
)

func (k entryKind) String() string {
	switch k {
	case entryData:
		return "data"
	case entryFile:
		return "file"
	default:
		return "snapshot"
	}
}

type entry struct {
	kind entryKind
	// source is path given by caller, path is what gets archived
	source string
	path   string
	stamp  time.Time
	data   []byte
}

// Report accumulates everything needed to reproduce a compilation:
// configuration, logs, component sources, generated modules, parsed trees
// and diagnostics. Nil *Report is valid and ignores everything. It is safe
// for concurrent use.
type Report struct {
	mu      sync.Mutex
	entries map[string]entry
	// diagnostics in order of arrival, archived as single file
	diagnostics []string
	// temporary directory holding snapshots, removed on Close
	snapshots string
	file      *os.File
}

// DiagnosticsName is archive name of collected diagnostics.
const DiagnosticsName = "diagnostics.txt"

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// add registers entry under name. Names are expected to be unique, reusing
// one is a programming error.
func (r *Report) add(name string, e entry) {
	if old, exists := r.entries[name]; exists && (old.kind != e.kind || old.source != e.source || e.kind == entryData) {
		panic(fmt.Sprintf("Attempt to overwrite %s in the report for [%s]", e.kind, name))
	}
	r.entries[name] = e
}

// Store references file or directory at path. Its content is read when
// report is closed, so logs written until then are included.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	e := entry{kind: entryFile, source: path, path: path}
	if p, err := filepath.Abs(path); err == nil {
		e.path = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(name, e)
}

// StoreData puts data into the report as a file with requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(name, entry{kind: entryData, data: data, stamp: time.Now()})
}

// StoreDiagnostic records compiler diagnostic or any other failure, severity
// is free form ("error", "warning").
func (r *Report) StoreDiagnostic(severity string, err error) {
	if r == nil || err == nil {
		return
	}
	line := fmt.Sprintf("%s\t%s\t%s", time.Now().UTC().Format(time.RFC3339), severity, err)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, line)
}

// StoreCopy takes snapshot of the file or directory at path. For
// directories only component sources are copied. Storing under a name which
// is already taken adds numeric suffix, so the same tree can be captured
// repeatedly.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.snapshots) == 0 {
		if r.snapshots, err = os.MkdirTemp("", misc.GetAppName()+"-r-"); err != nil {
			return err
		}
	}
	dir, err := os.MkdirTemp(r.snapshots, "")
	if err != nil {
		return err
	}

	e := entry{kind: entrySnapshot, source: path, path: dir, stamp: time.Now()}
	if info.Mode().IsRegular() {
		e.path = filepath.Join(dir, filepath.Base(abs))
		err = copyFile(abs, e.path, info.ModTime())
	} else {
		err = copySources(abs, dir)
	}
	if err != nil {
		return fmt.Errorf("unable to copy (%s) into report: %w", path, err)
	}

	for i, base := 1, name; ; i++ {
		if _, exists := r.entries[name]; !exists {
			break
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}
	r.entries[name] = e
	return nil
}

func copyFile(src, dst string, modTime time.Time) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0600); err != nil {
		return err
	}
	return os.Chtimes(dst, modTime, modTime)
}

// copySources copies .html and .css files under src keeping layout.
func copySources(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := common.FileKindFromName(path); !ok || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return copyFile(path, filepath.Join(dst, rel), info.ModTime())
	})
}

// Close writes the archive and removes snapshots.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.write()
	if len(r.snapshots) > 0 {
		os.RemoveAll(r.snapshots)
		r.snapshots = ""
	}
	return err
}

func (r *Report) write() error {
	arc := zip.NewWriter(r.file)
	now := time.Now()

	names, manifest := prepareManifest(r.entries, now)
	if err := saveFile(arc, "MANIFEST", now, bytes.NewReader(manifest)); err != nil {
		return err
	}
	if len(r.diagnostics) > 0 {
		data := strings.Join(r.diagnostics, "\n") + "\n"
		if err := saveFile(arc, DiagnosticsName, now, strings.NewReader(data)); err != nil {
			return err
		}
	}

	for _, name := range names {
		e := r.entries[name]
		if e.kind == entryData {
			if err := saveFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		// absent files are ignored
		info, err := os.Stat(e.path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			err = saveDir(arc, name, e.path)
		} else {
			err = saveEntryFile(arc, name, e.path, info.ModTime())
		}
		if err != nil {
			return err
		}
	}
	return arc.Close()
}

// prepareManifest returns entry names in natural order ("output/cmp2.js"
// before "output/cmp10.js") and manifest listing them.
func prepareManifest(entries map[string]entry, now time.Time) ([]string, []byte) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})

	var buf bytes.Buffer
	for _, name := range names {
		e := entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		origin := e.source
		if e.kind == entryData {
			origin = fmt.Sprintf("%d bytes", len(e.data))
		}
		fmt.Fprintf(&buf, "%s\t%s\t%s\t%s\n", stamp.UTC().Format(time.RFC3339), e.kind, name, origin)
	}
	return names, buf.Bytes()
}

func saveFile(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func saveEntryFile(arc *zip.Writer, name, path string, t time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return saveFile(arc, name, t, f)
}

func saveDir(arc *zip.Writer, name, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return saveEntryFile(arc, filepath.ToSlash(filepath.Join(name, rel)), path, info.ModTime())
	})
}
