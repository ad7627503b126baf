package table

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Record is the transient in-memory form of one extracted table: a header row
// plus zero or more data rows. It exists only between extraction and
// serialization.
type Record struct {
	Header []string
	Rows   [][]string
}

// Saved describes one CSV file written by the extractor, for run reporting.
type Saved struct {
	Path       string
	Identifier string
	Rows       int
	Columns    int
}

// Extractor turns the tables of a parsed document into CSV files. All site
// specifics live in this struct; the zero Selector means "table".
type Extractor struct {
	// OutDir is the directory output files are written into. It must exist.
	OutDir string
	// Selector overrides the query used to locate table-like nodes.
	Selector string
}

var (
	captionStrip   = regexp.MustCompile(`[^\w\s-]`)
	captionJoin    = regexp.MustCompile(`[-\s]+`)
	innerSpaceRuns = regexp.MustCompile(`\s+`)
)

// ExtractAndSave locates every table in doc in document order and writes each
// accepted one as an independent CSV under e.OutDir, named from baseName and
// the table's derived identifier. It returns the number of tables
// successfully written plus a description of each written file. Tables with
// no derivable header or no data rows are skipped and logged; an error while
// writing one table never affects its siblings.
func (e *Extractor) ExtractAndSave(doc *goquery.Document, baseName string) (int, []Saved) {
	selector := e.Selector
	if selector == "" {
		selector = "table"
	}
	tables := doc.Find(selector)
	if tables.Length() == 0 {
		log.Warn().Msg("no tables found on the page")
		return 0, nil
	}

	var saved []Saved
	tables.Each(func(i int, sel *goquery.Selection) {
		id := deriveIdentifier(sel, i)

		header := deriveHeader(sel)
		if len(header) == 0 {
			log.Warn().Str("table", id).Msg("skipping table: no headers found")
			return
		}

		rows := deriveRows(sel)
		if len(rows) == 0 {
			log.Warn().Str("table", id).Msg("skipping table: no data rows found")
			return
		}

		// The original truncates the header to the first row's width when
		// the header is longer. Narrower headers and ragged rows are kept
		// as-is; over-inclusion beats silent data loss.
		if len(header) > len(rows[0]) {
			header = header[:len(rows[0])]
		}

		path := uniquePath(e.OutDir, baseName, SafeIdentifier(id))
		if err := writeCSV(path, Record{Header: header, Rows: rows}); err != nil {
			log.Error().Err(err).Str("table", id).Msg("error processing table")
			return
		}
		log.Info().
			Str("path", path).
			Int("rows", len(rows)).
			Int("columns", len(header)).
			Msg("saved table")
		saved = append(saved, Saved{
			Path:       path,
			Identifier: id,
			Rows:       len(rows),
			Columns:    len(header),
		})
	})

	log.Info().
		Int("saved", len(saved)).
		Int("found", tables.Length()).
		Msg("table extraction finished")
	return len(saved), saved
}

// deriveIdentifier names a table by, in priority order, its id attribute,
// its first class name, or its position. A caption, when present, is
// sanitized and prepended for readability.
func deriveIdentifier(sel *goquery.Selection, index int) string {
	id := strings.TrimSpace(sel.AttrOr("id", ""))
	if id == "" {
		if classes, ok := sel.Attr("class"); ok {
			if fields := strings.Fields(classes); len(fields) > 0 {
				id = fields[0]
			}
		}
	}
	if id == "" {
		id = fmt.Sprintf("table_%d", index)
	}

	caption := strings.TrimSpace(sel.Find("caption").First().Text())
	if caption != "" {
		caption = captionStrip.ReplaceAllString(caption, "")
		caption = captionJoin.ReplaceAllString(caption, "_")
		if caption != "" {
			id = caption + "_" + id
		}
	}
	return id
}

// deriveHeader prefers the header cells of the table's thead; absent that it
// falls back to the first row of the body (or of the table when there is no
// body), reading both th and td cells. An empty result rejects the table.
func deriveHeader(sel *goquery.Selection) []string {
	var header []string
	// Only the first thead counts; a nested table's thead must not leak
	// its cells into this table's header.
	sel.Find("thead").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		header = append(header, cellText(th))
	})
	if len(header) > 0 {
		return header
	}

	var firstRow *goquery.Selection
	if tbody := sel.Find("tbody").First(); tbody.Length() > 0 {
		firstRow = tbody.Find("tr").First()
	} else {
		firstRow = sel.Find("tr").First()
	}
	firstRow.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		header = append(header, cellText(cell))
	})
	return header
}

// deriveRows walks every row of the body (or of the whole table when there is
// no body), skipping rows that live inside a thead so a header row matched by
// the row query is not double-counted. Rows with zero cells are dropped;
// width mismatches against the header are kept.
func deriveRows(sel *goquery.Selection) [][]string {
	var rowSel *goquery.Selection
	if tbody := sel.Find("tbody").First(); tbody.Length() > 0 {
		rowSel = tbody.Find("tr")
	} else {
		rowSel = sel.Find("tr")
	}

	var rows [][]string
	rowSel.Each(func(_ int, tr *goquery.Selection) {
		if tr.ParentsFiltered("thead").Length() > 0 {
			return
		}
		var cells []string
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		if len(cells) == 0 {
			return
		}
		rows = append(rows, cells)
	})
	return rows
}

// cellText flattens a cell to plain text, trimmed, with internal whitespace
// runs collapsed to single spaces.
func cellText(sel *goquery.Selection) string {
	return innerSpaceRuns.ReplaceAllString(strings.TrimSpace(sel.Text()), " ")
}
