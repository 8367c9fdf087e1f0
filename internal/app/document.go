package app

import (
	"os"
	"path/filepath"

	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/tool"
)

// Document is the tool script being edited.
type Document struct {
	// Path is the absolute file path, empty for scratch documents.
	Path string

	// Name is the display name.
	Name string

	// Buffer holds the script, metadata block included.
	Buffer *buffer.Buffer

	modified bool
	saved    string
}

// NewDocument creates a document holding content.
func NewDocument(path, content string, tabWidth int) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "untitled.lua"
	}
	return &Document{
		Path:   path,
		Name:   name,
		Buffer: buffer.NewBufferFromString(content, buffer.WithTabWidth(tabWidth)),
		saved:  content,
	}
}

// NewPresetDocument creates a scratch document from a built-in tool.
func NewPresetDocument(id string, tabWidth int) (*Document, error) {
	def, err := tool.Preset(id)
	if err != nil {
		return nil, err
	}
	src, err := def.Export()
	if err != nil {
		return nil, err
	}
	doc := NewDocument("", src, tabWidth)
	doc.Name = def.ID + ".lua"
	return doc, nil
}

// OpenDocument reads a script file.
func OpenDocument(path string, tabWidth int) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &FileError{Op: "open", Path: abs, Err: err}
	}
	return NewDocument(abs, string(data), tabWidth), nil
}

// IsScratch reports whether the document has no file.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsModified reports whether the text differs from the last load or save.
func (d *Document) IsModified() bool {
	return d.modified
}

// Content returns the full script.
func (d *Document) Content() string {
	return d.Buffer.Text()
}

// Definition parses the script and its metadata block.
func (d *Document) Definition() (*tool.Definition, error) {
	return tool.Parse(d.Content())
}

// Save writes the script to its path.
func (d *Document) Save() error {
	if d.IsScratch() {
		return ErrNoFilePath
	}
	content := d.Content()
	if err := os.WriteFile(d.Path, []byte(content), 0o644); err != nil {
		return &FileError{Op: "save", Path: d.Path, Err: err}
	}
	d.saved = content
	d.modified = false
	return nil
}

// Reload replaces the text with the file on disk. It reports false when
// the file matches what was last loaded or saved, which is the case for
// the watcher event caused by our own Save.
func (d *Document) Reload() (bool, error) {
	if d.IsScratch() {
		return false, ErrNoFilePath
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return false, &FileError{Op: "reload", Path: d.Path, Err: err}
	}
	content := string(data)
	if content == d.saved {
		return false, nil
	}
	cursor := d.Buffer.Cursor()
	d.Buffer.SetText(content)
	d.Buffer.SetCursor(cursor)
	d.saved = content
	d.modified = false
	return true, nil
}

// markChanged updates the modified flag after an edit.
func (d *Document) markChanged() {
	d.modified = d.Content() != d.saved
}
