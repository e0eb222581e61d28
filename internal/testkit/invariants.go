// Package testkit holds checks shared by parser and loader tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/slaakko/cmajor-sub007/internal/ast"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

// CheckSpanInvariants verifies the spans of a loaded unit:
// every item and statement span lies within the file it points to, and
// each statement of a body lies in the same file as the body's first one.
func CheckSpanInvariants(fs *source.FileSet, b *ast.Builder, fileID ast.FileID) error {
	if fs == nil || b == nil {
		return fmt.Errorf("nil file set or builder")
	}
	f := b.File(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	for _, it := range f.Items {
		if err := checkItem(fs, b, it); err != nil {
			return err
		}
	}
	return nil
}

func checkItem(fs *source.FileSet, b *ast.Builder, id ast.ItemID) error {
	item := b.Item(id)
	if item == nil {
		return fmt.Errorf("nil item for id=%d", id)
	}
	if err := checkSpan(fs, item.Span); err != nil {
		return fmt.Errorf("%s %q: %w", item.Kind, item.Name, err)
	}
	var bodyFile source.FileID
	for i, st := range item.Body {
		stmt := b.Stmt(st)
		if stmt == nil {
			return fmt.Errorf("%s %q: nil statement for id=%d", item.Kind, item.Name, st)
		}
		if err := checkSpan(fs, stmt.Span); err != nil {
			return fmt.Errorf("%s %q: statement %d: %w", item.Kind, item.Name, i, err)
		}
		if i == 0 {
			bodyFile = stmt.Span.File
		} else if stmt.Span.File != bodyFile {
			return fmt.Errorf("%s %q: statement %d is in file %d, body starts in %d", item.Kind, item.Name, i, stmt.Span.File, bodyFile)
		}
	}
	for _, child := range item.Children {
		if err := checkItem(fs, b, child); err != nil {
			return err
		}
	}
	return nil
}

func checkSpan(fs *source.FileSet, sp source.Span) error {
	sf := fs.Get(sp.File)
	if sf == nil {
		return fmt.Errorf("span %v points to unknown file", sp)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span: %v", sp)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > lenContent {
		return fmt.Errorf("span end beyond content: %d > %d", sp.End, lenContent)
	}
	return nil
}
