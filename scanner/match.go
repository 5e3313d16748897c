package scanner

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tagsplit/errs"
)

// readUntilMatch consumes bytes until match has been seen or the scan terminates.
//
// withinBlock selects the end-tag scan: every byte read is appended to the record
// buffer and the scan may run past the split end. Otherwise the scan looks for a
// start tag, stores nothing, and gives up once it is past the split end with no
// partial match in progress.
//
// It returns false at end of stream. Read errors other than io.EOF are returned.
func (s *TagScanner) readUntilMatch(match []byte, withinBlock bool) (bool, error) {
	i := 0
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}

			return false, fmt.Errorf("read %s at offset %d: %w", s.split.Path, s.pos, err)
		}
		s.pos++

		if withinBlock {
			if s.maxRecordSize > 0 && s.buffer.Len() >= s.maxRecordSize {
				return false, fmt.Errorf("%w: record starting before offset %d exceeds %d bytes",
					errs.ErrRecordTooLarge, s.pos, s.maxRecordSize)
			}
			_ = s.buffer.WriteByte(b)
		}

		if b == match[i] {
			i++
			if i >= len(match) {
				return true, nil
			}
		} else {
			// a space in place of the last start-tag byte means the tag has attributes
			if i == len(match)-1 && b == ' ' && !withinBlock {
				s.startTag[len(s.startTag)-1] = ' '
				s.attrSpace = true

				return true, nil
			}
			i = 0
		}

		if !withinBlock && i == 0 && s.pos >= s.end {
			return false, nil
		}
	}
}
