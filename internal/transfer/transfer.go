package transfer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/eigerco/kvscope/internal/kverr"
	"github.com/eigerco/kvscope/internal/query"
	"github.com/eigerco/kvscope/internal/store"
	"github.com/eigerco/kvscope/pkg/log"
)

// importChunk is the number of entries committed per batch during an import.
const importChunk = 1000

// Export writes every entry of tree to w in format f and returns how many
// entries were written.
func Export(tree *store.Tree, f Format, w io.Writer) (int, error) {
	encode, err := f.encoder()
	if err != nil {
		return 0, err
	}

	entries := []query.KeyValue{}
	err = tree.Scan(nil, nil, false, func(key, value []byte) (bool, error) {
		entries = append(entries, query.NewKeyValue(key, value))
		return true, nil
	})
	if err != nil {
		return 0, err
	}

	if err := encode(w, entries); err != nil {
		return 0, kverr.Mark(err, kverr.ErrIO, "write %s export", f)
	}
	log.Codec.Debug().
		Str("tree", tree.Name()).
		Str("format", string(f)).
		Int("entries", len(entries)).
		Msg("exported tree")
	return len(entries), nil
}

// Import decodes entries in format f from r and writes them into tree,
// overwriting existing keys. Entries are committed in chunks, so when
// decoding fails part way the entries before the failure stay written. The
// returned count is the number of entries committed.
func Import(tree *store.Tree, f Format, r io.Reader) (int, error) {
	decode, err := f.decoder()
	if err != nil {
		return 0, err
	}

	w := newChunkWriter(tree)
	err = decode(r, w.put)
	if flushErr := w.flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		log.Codec.Error().Err(err).
			Str("tree", tree.Name()).
			Str("format", string(f)).
			Int("committed", w.committed).
			Msg("import failed")
		return w.committed, err
	}

	log.Codec.Debug().
		Str("tree", tree.Name()).
		Str("format", string(f)).
		Int("entries", w.committed).
		Msg("imported tree")
	return w.committed, nil
}

// BulkImport writes entries into tree unconditionally and returns how many
// were written.
func BulkImport(tree *store.Tree, entries []query.KeyValue) (int, error) {
	w := newChunkWriter(tree)
	for _, e := range entries {
		if err := w.put(e.Key, e.Value); err != nil {
			return w.committed, err
		}
	}
	if err := w.flush(); err != nil {
		return w.committed, err
	}
	return w.committed, nil
}

// ExportFile exports tree into the file at path, creating or truncating it.
// The format is checked before the file is touched.
func ExportFile(tree *store.Tree, f Format, path string) (int, error) {
	if _, err := f.encoder(); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, kverr.Mark(err, kverr.ErrIO, "create export file")
	}
	buf := bufio.NewWriter(file)

	n, err := Export(tree, f, buf)
	if err == nil {
		if flushErr := buf.Flush(); flushErr != nil {
			err = kverr.Mark(flushErr, kverr.ErrIO, "write export file")
		}
	}
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = kverr.Mark(closeErr, kverr.ErrIO, "close export file")
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ImportFile imports the file at path into tree. The format is checked
// before the file is opened.
func ImportFile(tree *store.Tree, f Format, path string) (int, error) {
	if _, err := f.decoder(); err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, kverr.Mark(err, kverr.ErrIO, "open import file")
	}
	defer file.Close() //nolint:errcheck // read-only

	return Import(tree, f, &ioReader{r: bufio.NewReader(file)})
}

// Summary is the message reported after a file export.
func Summary(n int, path string) string {
	return fmt.Sprintf("exported %d records to %s", n, path)
}

// ioReader marks read failures of the underlying file as ErrIO so they are
// not mistaken for malformed content.
type ioReader struct {
	r io.Reader
}

func (r *ioReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && err != io.EOF {
		err = kverr.Mark(err, kverr.ErrIO, "read import file")
	}
	return n, err
}

// chunkWriter batches puts into a tree and commits every importChunk entries.
type chunkWriter struct {
	tree      *store.Tree
	batch     *store.Batch
	committed int
}

func newChunkWriter(tree *store.Tree) *chunkWriter {
	return &chunkWriter{tree: tree}
}

func (w *chunkWriter) put(key, value []byte) error {
	if w.batch == nil {
		w.batch = w.tree.NewBatch()
	}
	if err := w.batch.Put(key, value); err != nil {
		return err
	}
	if w.batch.Len() >= importChunk {
		return w.flush()
	}
	return nil
}

func (w *chunkWriter) flush() error {
	if w.batch == nil {
		return nil
	}
	batch := w.batch
	w.batch = nil
	defer batch.Close() //nolint:errcheck // no-op after commit

	n := batch.Len()
	if n == 0 {
		return nil
	}
	if err := batch.Commit(); err != nil {
		return err
	}
	w.committed += n
	return nil
}
