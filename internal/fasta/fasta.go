// Package fasta reads and writes the sequence files consumed by the pipeline.
// Only the identifier, description and residue string of each record are kept.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// LineWidth is the residue column width used when writing records
const LineWidth = 80

// Extensions lists the file suffixes treated as sequence files
var Extensions = []string{".fasta", ".fa", ".fas", ".faa"}

// Record is one sequence entry
type Record struct {
	ID          string
	Description string
	Sequence    string
}

// Header renders the record's header line without the leading '>'
func (r Record) Header() string {
	if r.Description == "" {
		return r.ID
	}
	return r.ID + "|" + r.Description
}

// ReadFile parses every record in path. Files ending in .gz are decompressed.
func ReadFile(path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// Read parses records from r
func Read(r io.Reader) ([]Record, error) {
	var (
		records []Record
		current *Record
		seq     strings.Builder
		lineNo  int
	)

	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			records = append(records, *current)
		}
		seq.Reset()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if line[0] == '>' {
			flush()
			id, desc := splitHeader(line[1:])
			if id == "" {
				id = fmt.Sprintf("sequence_%d", len(records)+1)
			}
			current = &Record{ID: id, Description: desc}
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: sequence data before first header", lineNo)
		}
		seq.WriteString(strings.Join(strings.Fields(line), ""))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	return records, nil
}

// splitHeader separates the identifier from the description at the first '|' or whitespace
func splitHeader(header string) (string, string) {
	header = strings.TrimSpace(header)
	idx := strings.IndexAny(header, "| \t")
	if idx < 0 {
		return header, ""
	}
	return header[:idx], strings.TrimSpace(header[idx+1:])
}

// WriteFile writes records to path. The parent directory must already exist.
func WriteFile(path string, records []Record) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(fh, records); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return fh.Close()
}

// Write renders records with residues wrapped at LineWidth columns
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, ">%s\n", rec.Header()); err != nil {
			return err
		}
		for i := 0; i < len(rec.Sequence); i += LineWidth {
			end := i + LineWidth
			if end > len(rec.Sequence) {
				end = len(rec.Sequence)
			}
			if _, err := fmt.Fprintf(bw, "%s\n", rec.Sequence[i:end]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// HasExtension reports whether name carries a recognised sequence-file suffix
func HasExtension(name string) bool {
	lower := strings.ToLower(strings.TrimSuffix(name, ".gz"))
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func openReader(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return fh, nil
}
