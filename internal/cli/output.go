package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/artsel/internal/cli/pagination"
	"github.com/rshade/artsel/internal/collection"
	"github.com/rshade/artsel/internal/selection"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// maxTitleLen caps the title column in table output.
const maxTitleLen = 48

// selectionJSONOutput is the JSON document printed by select.
type selectionJSONOutput struct {
	Requested int                 `json:"requested"`
	Appended  int                 `json:"appended"`
	Fetches   int                 `json:"fetches"`
	Exhausted bool                `json:"exhausted"`
	Warning   string              `json:"warning,omitempty"`
	Records   []collection.Record `json:"records"`
}

// pageJSONOutput is the JSON document printed by page.
type pageJSONOutput struct {
	Pagination pagination.PaginationMeta `json:"pagination"`
	Records    []collection.Record       `json:"records"`
}

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// renderSelection writes the selected records and a summary in the given format.
func renderSelection(w io.Writer, output string, res selection.Result, records []collection.Record) error {
	switch output {
	case outputJSON:
		doc := selectionJSONOutput{
			Requested: res.Requested,
			Appended:  res.Appended,
			Fetches:   res.Fetches,
			Exhausted: res.Exhausted,
			Records:   nonNil(records),
		}
		if res.Warning != nil {
			doc.Warning = res.Warning.Error()
		}
		return renderJSON(w, doc)
	case outputNDJSON:
		return renderNDJSON(w, records)
	case outputTable:
		if err := renderRecordTable(w, records); err != nil {
			return err
		}
		p := newPrinter()
		summary := p.Sprintf("\nSelected %d of %d requested records (%d pages fetched)", res.Appended, res.Requested, res.Fetches)
		if res.Exhausted {
			summary += ", end of collection reached"
		}
		_, err := fmt.Fprintln(w, summary)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOutput, output)
	}
}

// renderPage writes one page and its metadata in the given format.
func renderPage(w io.Writer, output string, meta pagination.PaginationMeta, records []collection.Record) error {
	switch output {
	case outputJSON:
		return renderJSON(w, pageJSONOutput{Pagination: meta, Records: nonNil(records)})
	case outputNDJSON:
		return renderNDJSON(w, records)
	case outputTable:
		if err := renderRecordTable(w, records); err != nil {
			return err
		}
		p := newPrinter()
		_, err := p.Fprintf(w, "\nShowing %d-%d of %d (page %d of %d)\n",
			meta.FirstItem, meta.LastItem, meta.TotalItems, meta.CurrentPage, meta.TotalPages)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOutput, output)
	}
}

func renderRecordTable(w io.Writer, records []collection.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "CODE\tTITLE\tARTIST\tORIGIN\tSTART\tEND")
	fmt.Fprintln(tw, "----\t-----\t------\t------\t-----\t---")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			truncate(rec.Title, maxTitleLen),
			firstLine(rec.ArtistDisplay),
			rec.PlaceOfOrigin,
			strconv.Itoa(rec.DateStart),
			strconv.Itoa(rec.DateEnd),
		)
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func renderNDJSON(w io.Writer, records []collection.Record) error {
	encoder := json.NewEncoder(w)
	for _, rec := range records {
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("encoding NDJSON: %w", err)
		}
	}
	return nil
}

func nonNil(records []collection.Record) []collection.Record {
	if records == nil {
		return []collection.Record{}
	}
	return records
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
