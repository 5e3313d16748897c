// Package scanner extracts tag-delimited records from one split of a byte stream.
//
// A TagScanner is given a start tag, an end tag and a split [start, end). Each call
// to Next returns the bytes from the first byte of a start-tag occurrence through
// the last byte of the following end-tag occurrence:
//
//	sc, err := scanner.New(f, split.Split{Path: name, Start: 0, Length: size},
//	    scanner.MapConfig{scanner.StartTagKey: "<page>", scanner.EndTagKey: "</page>"})
//	if err != nil {
//	    return err
//	}
//	defer sc.Close()
//
//	for rec, err := range sc.Records() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec.Key, string(rec.Value))
//	}
//
// # Split Boundaries
//
// A scanner only starts a record whose start tag begins before the split end, but
// it reads past the end as far as needed to find the matching end tag. The reader
// of the following split starts at its own offset and skips forward to the next
// start tag. Together these rules assign every record to exactly one split without
// any coordination between scanners.
//
// # Matching
//
// Matching is byte-literal prefix matching with a reset to zero on mismatch; no XML
// parsing takes place. When a start-tag scan has matched every byte but the last
// and sees a space instead, the scanner treats it as a start tag carrying
// attributes: the match succeeds and the stored start tag's last byte becomes a
// space for the rest of the scanner's life. With start tag "<page>" this accepts
// `<page id="1">`, but afterwards only "<page " is recognized.
//
// A start tag with no end tag before end of stream is dropped silently.
//
// # Thread Safety
//
// A TagScanner must be used by a single goroutine. Separate scanners share no
// state and can run in parallel, one per split.
package scanner
