// Package clipboard provides the copy-to-clipboard affordance for the
// terminal shell.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

// Writer copies text to the user's clipboard.
type Writer interface {
	Copy(text string) error
}

// OSC52 copies via the OSC 52 terminal escape sequence, which reaches the
// local clipboard even over SSH when the terminal supports it.
type OSC52 struct {
	Out io.Writer
}

func (c *OSC52) Copy(text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(c.Out, "\x1b]52;c;%s\x07", encoded)
	return err
}

// Memory records copied text for tests.
type Memory struct {
	mu    sync.Mutex
	texts []string
}

func (c *Memory) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
	return nil
}

// Texts returns everything copied so far.
func (c *Memory) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}
