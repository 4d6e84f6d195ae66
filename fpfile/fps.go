package fpfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/butina/fingerprint"
)

const maxLineSize = 1 << 20

// ReadFPS parses an FPS text library.
//
// Without a num_bits header the length is taken from the first record.
// Records without an ID column get an empty ID.
func ReadFPS(r io.Reader) (*Library, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		nbits int
		fps   []*fingerprint.Fingerprint
		ids   []string
		line  int
	)

	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "#") {
			if len(fps) > 0 {
				return nil, &ParseError{Line: line, cause: errors.New("header after records")}
			}
			key, value, ok := strings.Cut(text[1:], "=")
			if ok && key == "num_bits" {
				n, err := strconv.Atoi(strings.TrimSpace(value))
				if err != nil || n <= 0 {
					return nil, &ParseError{Line: line, cause: fmt.Errorf("invalid num_bits %q", value)}
				}
				nbits = n
			}
			continue
		}

		hexPart, rest, _ := strings.Cut(text, "\t")
		id, _, _ := strings.Cut(rest, "\t")

		fp, err := fingerprint.FromHex(hexPart, nbits)
		if err != nil {
			return nil, &ParseError{Line: line, cause: err}
		}
		if nbits == 0 {
			nbits = fp.Len()
		}

		fps = append(fps, fp)
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	store, err := fingerprint.NewStore(fps)
	if err != nil {
		return nil, err
	}
	return NewLibrary(store, ids)
}

// WriteFPS writes lib as an FPS text library.
func WriteFPS(w io.Writer, lib *Library) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "#FPS1\n#num_bits=%d\n", lib.Store.NumBits()); err != nil {
		return err
	}
	for i, fp := range lib.Store.All() {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", fp.Hex(), lib.ID(i)); err != nil {
			return err
		}
	}

	return bw.Flush()
}
