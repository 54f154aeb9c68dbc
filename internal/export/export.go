// Package export turns a revealed batch into a shareable PNG and copies a
// text rendition to the clipboard.
package export

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/naveenspark/gacha/internal/present"
)

// Error is a failed export. Draw state is never affected by it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "export " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Artifact describes a finished export.
type Artifact struct {
	Path   string
	Bytes  int
	Shared bool // text copied to the clipboard
	Opened bool
}

// Exporter writes result images.
type Exporter struct {
	Dir       string             // "." when empty
	Clipboard func(string) error // clipboard.WriteAll when nil
	Open      func(string) error // nil leaves the file closed
	Log       zerolog.Logger
}

// FileName is the image file name for a draw cycle.
func FileName(id uuid.UUID) string {
	return "gacha-result-" + id.String()[:8] + ".png"
}

// Export renders snap to Dir and shares it. Clipboard and open failures are
// logged and reported on the Artifact only.
func (e *Exporter) Export(ctx context.Context, id uuid.UUID, snap present.Snapshot) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, &Error{Op: "render", Err: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(snap)); err != nil {
		return Artifact{}, &Error{Op: "encode", Err: err}
	}

	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifact{}, &Error{Op: "write", Err: err}
	}
	path := filepath.Join(dir, FileName(id))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Artifact{}, &Error{Op: "write", Err: err}
	}
	art := Artifact{Path: path, Bytes: buf.Len()}

	copyText := e.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	if err := copyText(ShareText(snap)); err != nil {
		e.Log.Warn().Err(err).Msg("clipboard unavailable")
	} else {
		art.Shared = true
	}

	if e.Open != nil {
		if err := e.Open(path); err != nil {
			e.Log.Warn().Err(err).Str("path", path).Msg("open export")
		} else {
			art.Opened = true
		}
	}

	e.Log.Info().Str("path", path).Int("bytes", art.Bytes).Bool("shared", art.Shared).Msg("exported")
	return art, nil
}

// ShareText is the clipboard text for a snapshot.
func ShareText(snap present.Snapshot) string {
	lines := append(snap.Lines(), "", snap.Caption)
	return strings.Join(lines, "\n")
}
