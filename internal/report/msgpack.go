package report

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"codecrawl/internal/crawler"
)

// MsgPack writes the report as a single msgpack document.
func MsgPack(w io.Writer, r *crawler.Report, opts Options) error {
	return msgpack.NewEncoder(w).Encode(BuildOutput(r, opts))
}

// DecodeMsgPack reads a document written by MsgPack.
func DecodeMsgPack(rd io.Reader) (Output, error) {
	var out Output
	err := msgpack.NewDecoder(rd).Decode(&out)
	return out, err
}
