package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go-linkedin-jobs/internal/scraper"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatTSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q", value)
	}
}

func (f Format) Ext() string {
	if f == "" {
		return string(FormatCSV)
	}
	return string(f)
}

// Header is the fixed column order of the delimited table.
func Header() []string {
	return []string{"Job Title", "Job Subtitle", "Location", "Date Posted"}
}

func row(r scraper.Record) []string {
	return []string{r.Title, r.Subtitle, r.Location, r.DatePosted}
}

// Write serializes records to w. Output depends only on the records, so equal input gives equal bytes.
func Write(w io.Writer, records []scraper.Record, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatTSV:
		return writeDelimited(w, records, '\t')
	case FormatCSV, "":
		return writeDelimited(w, records, ',')
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeDelimited(w io.Writer, records []scraper.Record, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(Header()); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write(row(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, records []scraper.Record) error {
	if records == nil {
		records = []scraper.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteFile replaces path with the serialized result set. The file is written to a
// temporary sibling first and renamed, so a failed write leaves the old file intact.
func WriteFile(path string, set *scraper.ResultSet, format Format) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Write(tmp, set.Records(), format); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", format.Ext(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DefaultFileName derives the output name from the job title: "linkedIn_<title>.<ext>".
// Accents are folded and characters that are unsafe in file names become underscores.
func DefaultFileName(title string, format Format) string {
	folded, _, err := transform.String(fold, strings.TrimSpace(title))
	if err != nil {
		folded = title
	}
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, folded)
	if name == "" {
		name = "jobs"
	}
	return fmt.Sprintf("linkedIn_%s.%s", name, format.Ext())
}
