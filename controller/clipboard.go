package controller

import (
	"context"
	"fmt"
	"io"
)

// WriterClipboard "copies" by printing the text to W, for terminals
// without clipboard access.
type WriterClipboard struct {
	W io.Writer
}

func (w WriterClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w.W, text)
	return err
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(msg string)

func (f NotifyFunc) Notify(msg string) { f(msg) }
