// Package tablesort orders grid rows by one column, comparing cells according
// to the kind of data the column header announces.
package tablesort

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/di-authoring-service/internal/models"
)

type ColumnKind string

const (
	KindText       ColumnKind = "text"
	KindFloat      ColumnKind = "float"
	KindPercentage ColumnKind = "percentage"
	KindRank       ColumnKind = "rank"
)

// KindForHeader infers a column kind from well-known header suffixes.
func KindForHeader(header string) ColumnKind {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.HasSuffix(h, "seconds"):
		return KindFloat
	case strings.HasSuffix(h, "percentage"):
		return KindPercentage
	case strings.HasSuffix(h, "rank"):
		return KindRank
	default:
		return KindText
	}
}

// Compare orders two cells of the given kind. Cells that do not parse for a
// numeric kind sort after every parsed cell and compare as text among
// themselves.
func Compare(kind ColumnKind, a, b string) int {
	if kind == KindText {
		return compareText(a, b)
	}

	av, aok := parse(kind, a)
	bv, bok := parse(kind, b)
	switch {
	case aok && bok:
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case aok:
		return -1
	case bok:
		return 1
	default:
		return compareText(a, b)
	}
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func parse(kind ColumnKind, cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	switch kind {
	case KindPercentage:
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	case KindRank:
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// SortRows returns the rows of g ordered ascending by the column named
// sortBy, using the kind its header announces. The sort is stable and the
// grid is not modified. An unknown sortBy returns the rows in their
// original order.
func SortRows(g *models.Grid, sortBy string) [][]string {
	col := g.ColumnIndex(sortBy)
	if col < 0 {
		return copyRows(g.Rows)
	}
	return SortRowsBy(g.Rows, col, KindForHeader(sortBy))
}

// SortRowsBy stable-sorts a copy of rows by column col.
func SortRowsBy(rows [][]string, col int, kind ColumnKind) [][]string {
	sorted := copyRows(rows)
	slices.SortStableFunc(sorted, func(a, b []string) int {
		return Compare(kind, cell(a, col), cell(b, col))
	})
	return sorted
}

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string{}, row...)
	}
	return out
}
