package tiff

import (
	"encoding/binary"

	"github.com/kestreltiff/tiff/store"
	"github.com/kestreltiff/tiff/tiffwriter"
)

// FileWriter owns a read-write backing store and the tiffwriter.Cursor
// writing into it, the collaborator-level counterpart to FileReader.
// Its surface is exactly the one spec.md §6 allows a caller:
// NewIFD/Builder.Add*/Commit, then Finish, then Close.
type FileWriter struct {
	store  *store.FileStore
	cursor *tiffwriter.Cursor
	opts   Options
	prev   int64
}

// Create creates (or truncates) path and returns a FileWriter ready
// to build IFDs in the given byte order and file mode.
func Create(path string, order binary.ByteOrder, opts Options) (*FileWriter, error) {
	s, err := store.CreateFile(path)
	if err != nil {
		return nil, wrapErr(IoFailure, err)
	}
	cursor := tiffwriter.NewCursor(s, order, opts.Mode)
	return &FileWriter{store: s, cursor: cursor, opts: opts}, nil
}

// NewIFD returns a Builder for the next IFD in this file's chain.
// Committing the returned Builder through FileWriter.Commit links it
// after whichever IFD this FileWriter last committed; Builder.Commit
// called directly does not.
func (f *FileWriter) NewIFD() *tiffwriter.Builder {
	return tiffwriter.NewBuilder(f.cursor)
}

// Commit commits b and records it as the most recently written IFD,
// so the next call to NewIFD/Commit chains after it.
func (f *FileWriter) Commit(b *tiffwriter.Builder) (int64, error) {
	offset, err := b.Commit(f.prev)
	if err != nil {
		return 0, translateWriterErr(err)
	}
	f.prev = offset
	return offset, nil
}

// Finish flushes the file header, pointing it at the first committed
// IFD, and leaves the writer in a completed, dispose-only state.
// Fails with BigTiffRequired if the file grew past the Classic 32-bit
// offset limit; the caller must then rebuild in Big mode (spec.md §4.F).
func (f *FileWriter) Finish() error {
	if err := f.cursor.FlushHeader(); err != nil {
		return translateWriterErr(err)
	}
	return nil
}

// Close disposes the writer's cursor and, unless Options.LeaveOpen,
// its backing store.
func (f *FileWriter) Close() error {
	f.cursor.Close()
	if f.opts.LeaveOpen {
		return nil
	}
	if err := f.store.Close(); err != nil {
		return wrapErr(IoFailure, err)
	}
	return nil
}

func translateWriterErr(err error) error {
	we, ok := err.(*tiffwriter.Error)
	if !ok {
		return wrapErr(IoFailure, err)
	}
	kind := map[tiffwriter.Kind]Kind{
		tiffwriter.BigTiffRequired: BigTiffRequired,
		tiffwriter.Disposed:        Disposed,
		tiffwriter.Completed:       Completed,
		tiffwriter.IoFailure:       IoFailure,
		tiffwriter.Malformed:       Malformed,
	}[we.Kind]
	return &Error{Kind: kind, Msg: we.Msg, Err: we}
}
