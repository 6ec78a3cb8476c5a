package letta

import (
	"bufio"
	"io"
)

const (
	// lineBufSize is the starting buffer capacity for transcript reads.
	lineBufSize = 64 * 1024

	// maxLineSize caps a single transcript line. Oversized lines (huge
	// tool returns) are skipped rather than aborting the whole read.
	maxLineSize = 16 * 1024 * 1024
)

// lineReader reads JSONL transcripts line by line, skipping oversized
// lines and tracking bytes consumed so tailing can resume from an offset.
// After iteration, call Err() to check for IO errors (not EOF).
type lineReader struct {
	r         *bufio.Reader
	buf       []byte
	err       error
	bytesRead int64
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r:   bufio.NewReaderSize(r, lineBufSize),
		buf: make([]byte, 0, lineBufSize),
	}
}

// next returns the next non-empty line (without trailing newline) and
// true, or ("", false) at EOF or IO error.
func (lr *lineReader) next() (string, bool) {
	for {
		line, err := lr.readLine()
		if err != nil {
			if err != io.EOF {
				lr.err = err
			}
			return "", false
		}
		if line != "" {
			return line, true
		}
	}
}

// Err returns the first non-EOF IO error encountered, or nil.
func (lr *lineReader) Err() error { return lr.err }

// BytesRead returns total bytes consumed, including skipped lines and
// newline delimiters. Used as the resume offset for incremental tailing.
func (lr *lineReader) BytesRead() int64 { return lr.bytesRead }

// readLine accumulates one full line via bufio.Reader.ReadLine, returning
// "" for blank or oversized lines and a non-nil error only at EOF or read
// failure. ReadLine cannot distinguish "ended with \n" from "ended at
// EOF", so BytesRead may overcount by one on a final unterminated line;
// harmless for tailing since real entries always end with \n.
func (lr *lineReader) readLine() (string, error) {
	lr.buf = lr.buf[:0]
	oversized := false

	for {
		chunk, isPrefix, err := lr.r.ReadLine()
		lr.bytesRead += int64(len(chunk))

		if err != nil {
			if len(lr.buf) > 0 && err == io.EOF {
				break
			}
			return "", err
		}
		if !isPrefix {
			lr.bytesRead++ // the stripped \n
		}

		if oversized {
			if !isPrefix {
				return "", nil
			}
			continue
		}

		lr.buf = append(lr.buf, chunk...)
		if len(lr.buf) > maxLineSize {
			oversized = true
			lr.buf = lr.buf[:0]
			if !isPrefix {
				return "", nil
			}
			continue
		}

		if !isPrefix {
			break
		}
	}
	return string(lr.buf), nil
}
