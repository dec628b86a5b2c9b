package bridge

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Tweak removes flags from standard form processing and adjusts invocation
// or the response. Tweaks run inside the bridge's invocation lock, so they
// may keep per-invocation state between PadValues and PostProcess.
type Tweak interface {
	// Name identifies the tweak in logs and error context.
	Name() string

	// Gobble reports whether the tweak claims the named flag. Claimed
	// flags are omitted from the form; the tweak supplies their values.
	Gobble(name string) bool

	// PadValues injects values for claimed flags before invocation.
	PadValues(values map[string]string) error

	// PostProcess may rewrite the response after invocation.
	PostProcess(resp *Response) (*Response, error)
}

// FileResponseTweak claims an output-path flag, points it at a temp file
// for each invocation, and turns the file's contents into a download
// response. The command's own printed output is discarded in favor of the
// file.
type FileResponseTweak struct {
	// ArgName is the flag the command writes its output file to.
	ArgName string

	// Pattern is the temp file pattern handed to os.CreateTemp, e.g.
	// "cmdform_*.csv".
	Pattern string

	// SplitChar trims the attachment filename: when the temp file's base
	// name contains it, the name after the last occurrence is used.
	// Defaults to "_".
	SplitChar string

	fileName string
}

// NewFileResponseTweak creates a tweak for the given output-path flag.
func NewFileResponseTweak(argName, pattern string) *FileResponseTweak {
	return &FileResponseTweak{
		ArgName:   argName,
		Pattern:   pattern,
		SplitChar: "_",
	}
}

// Name implements Tweak.
func (t *FileResponseTweak) Name() string {
	return "FileResponseTweak"
}

// Gobble implements Tweak.
func (t *FileResponseTweak) Gobble(name string) bool {
	return name == t.ArgName
}

// PadValues implements Tweak: allocates the invocation's temp file and
// binds its path to the claimed flag.
func (t *FileResponseTweak) PadValues(values map[string]string) error {
	f, err := os.CreateTemp("", t.Pattern)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	t.fileName = f.Name()
	values[t.ArgName] = t.fileName
	return nil
}

// PostProcess implements Tweak: replaces the response body with the output
// file's contents as an attachment, then removes the file.
func (t *FileResponseTweak) PostProcess(resp *Response) (*Response, error) {
	defer func() {
		if t.fileName != "" {
			os.Remove(t.fileName)
			t.fileName = ""
		}
	}()

	data, err := os.ReadFile(t.fileName)
	if err != nil {
		return nil, fmt.Errorf("reading output file: %w", err)
	}

	resp.Body = data
	resp.ContentType = "application/octet-stream"
	resp.Header.Set("Content-Disposition", mime.FormatMediaType("attachment",
		map[string]string{"filename": t.attachmentName()}))
	return resp, nil
}

func (t *FileResponseTweak) attachmentName() string {
	base := filepath.Base(t.fileName)
	if t.SplitChar != "" {
		if i := strings.LastIndex(base, t.SplitChar); i >= 0 {
			return base[i+len(t.SplitChar):]
		}
	}
	return base
}
