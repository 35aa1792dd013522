package models

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// DataSourceKind selects which body field of a DataSource is meaningful.
type DataSourceKind string

const (
	SourceInstructions DataSourceKind = "instructions"
	SourceTable        DataSourceKind = "table"
	SourceImage        DataSourceKind = "image"
)

// DataSource is one tab of a Multi-Source Reasoning item.
//
// Content is the body of an instructions tab, Table the body of a table tab
// and Image the data URI of an image tab. Instructions is free text shown
// with any kind; for table tabs it may carry the {table} token to position
// the grid.
type DataSource struct {
	ID           int            `json:"id"`
	Kind         DataSourceKind `json:"kind" validate:"source_kind"`
	Title        string         `json:"title"`
	Content      string         `json:"content,omitempty"`
	Table        *Grid          `json:"table,omitempty"`
	Image        string         `json:"image,omitempty"`
	Instructions string         `json:"instructions"`
	TableTitle   string         `json:"tableTitle,omitempty"`
	FooterTitle  string         `json:"footerTitle,omitempty"`
}

// NewDataSource creates an empty source of the given kind.
func NewDataSource(id int, kind DataSourceKind, title string) (DataSource, error) {
	ds := DataSource{ID: id, Title: title}
	if err := ds.SetKind(kind); err != nil {
		return DataSource{}, err
	}
	return ds, nil
}

// SetKind switches the tab kind and resets the body to that kind's empty
// state. Title and instructions survive the switch.
func (ds *DataSource) SetKind(kind DataSourceKind) error {
	switch kind {
	case SourceInstructions, SourceImage:
		ds.Table = nil
	case SourceTable:
		if ds.Kind != SourceTable || ds.Table == nil {
			ds.Table = NewGrid([]string{"Column 1", "Column 2"}, 1)
		}
	default:
		return apperrors.NewPreconditionError("set_source_kind", fmt.Sprintf("unknown source kind %q", kind))
	}
	if kind != SourceInstructions {
		ds.Content = ""
	}
	if kind != SourceImage {
		ds.Image = ""
	}
	if kind != SourceTable {
		ds.TableTitle = ""
		ds.FooterTitle = ""
	}
	ds.Kind = kind
	return nil
}

// HasContent reports whether the tab carries a body appropriate to its kind.
func (ds *DataSource) HasContent() bool {
	switch ds.Kind {
	case SourceInstructions:
		return !isBlank(ds.Content) || !isBlank(ds.Instructions)
	case SourceTable:
		return ds.Table != nil && len(ds.Table.Rows) > 0
	case SourceImage:
		return ds.Image != "" || !isBlank(ds.Instructions)
	default:
		return false
	}
}

func (ds DataSource) clone() DataSource {
	ds.Table = ds.Table.Clone()
	return ds
}
