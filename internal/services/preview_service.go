package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/di-authoring-service/internal/cache"
	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/SAP-F-2025/di-authoring-service/internal/tablesort"
	"github.com/SAP-F-2025/di-authoring-service/internal/template"
)

// PreviewView is the read-only rendering of a complete draft. Exactly one
// of the variant views is set.
type PreviewView struct {
	DraftID  string              `json:"draft_id"`
	Revision uint64              `json:"revision"`
	Type     models.QuestionType `json:"type"`

	DataSufficiency        *DataSufficiencyView        `json:"data_sufficiency,omitempty"`
	GraphicsInterpretation *GraphicsInterpretationView `json:"graphics_interpretation,omitempty"`
	MultiSource            *MultiSourceView            `json:"multi_source,omitempty"`
	TableAnalysis          *TableAnalysisView          `json:"table_analysis,omitempty"`
	TwoPartAnalysis        *TwoPartAnalysisView        `json:"two_part_analysis,omitempty"`
}

type DataSufficiencyView struct {
	Context       string    `json:"context"`
	Statements    [2]string `json:"statements"`
	Choices       [5]string `json:"choices"`
	CorrectAnswer int       `json:"correct_answer"`
}

type GraphicsInterpretationView struct {
	Image       string             `json:"image"`
	Description string             `json:"description"`
	Instruction string             `json:"instruction"`
	Conclusion  []template.Segment `json:"conclusion"`
	Text        string             `json:"text"`
}

type TableView struct {
	Headers []string   `json:"headers"`
	Kinds   []string   `json:"kinds"`
	Rows    [][]string `json:"rows"`
}

type SourceView struct {
	ID          int                   `json:"id"`
	Title       string                `json:"title"`
	Kind        models.DataSourceKind `json:"kind"`
	Content     string                `json:"content,omitempty"`
	Image       string                `json:"image,omitempty"`
	Before      string                `json:"before,omitempty"`
	After       string                `json:"after,omitempty"`
	Table       *TableView            `json:"table,omitempty"`
	TableTitle  string                `json:"table_title,omitempty"`
	FooterTitle string                `json:"footer_title,omitempty"`
}

type MultiSourceView struct {
	Tabs                  []SourceView       `json:"tabs"`
	StatementsInstruction string             `json:"statements_instruction"`
	Statements            []models.Statement `json:"statements"`
}

type TableAnalysisView struct {
	Instructions string             `json:"instructions"`
	SortBy       string             `json:"sort_by"`
	SortOptions  []string           `json:"sort_options"`
	Table        TableView          `json:"table"`
	Statements   []models.Statement `json:"statements"`
}

type TwoPartRow struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected []bool `json:"selected"`
}

type TwoPartAnalysisView struct {
	Context     string       `json:"context"`
	Instruction string       `json:"instruction"`
	Headers     []string     `json:"headers"`
	Rows        []TwoPartRow `json:"rows"`
}

// PreviewOptions are reader choices that change the rendering.
type PreviewOptions struct {
	// SortBy overrides the authored sort column of a Table Analysis item.
	SortBy *string
}

type PreviewService interface {
	Render(ctx context.Context, snap *DraftSnapshot, opts PreviewOptions) (*PreviewView, error)
	Invalidate(ctx context.Context, draftID string)
}

type previewService struct {
	cache  cache.CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewPreviewService(cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) PreviewService {
	return &previewService{cache: cacheService, ttl: ttl, logger: logger}
}

// Render materializes the view of a snapshot. Views are memoized per draft
// revision; an incomplete draft is refused with an IncompleteError.
func (s *previewService) Render(ctx context.Context, snap *DraftSnapshot, opts PreviewOptions) (*PreviewView, error) {
	if !snap.Completeness.OK {
		return nil, &IncompleteError{Completeness: snap.Completeness}
	}

	key := previewKey(snap, opts)
	var cached PreviewView
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		return &cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.Warn("Preview cache read failed", "draft_id", snap.ID, "error", err)
	}

	view, err := BuildPreview(snap, opts)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, view, s.ttl); err != nil {
		s.logger.Warn("Preview cache write failed", "draft_id", snap.ID, "error", err)
	}
	return view, nil
}

func (s *previewService) Invalidate(ctx context.Context, draftID string) {
	if err := s.cache.DeletePattern(ctx, "preview:"+draftID+":*"); err != nil {
		s.logger.Warn("Preview cache invalidation failed", "draft_id", draftID, "error", err)
	}
}

func previewKey(snap *DraftSnapshot, opts PreviewOptions) string {
	key := fmt.Sprintf("preview:%s:%d", snap.ID, snap.Revision)
	if opts.SortBy != nil {
		key += ":sort=" + *opts.SortBy
	}
	return key
}

// BuildPreview renders a snapshot without caching.
func BuildPreview(snap *DraftSnapshot, opts PreviewOptions) (*PreviewView, error) {
	view := &PreviewView{DraftID: snap.ID, Revision: snap.Revision, Type: snap.Type}

	switch d := snap.Draft.(type) {
	case *models.DataSufficiencyDraft:
		if d.CorrectAnswer == nil {
			return nil, fmt.Errorf("preview: %w", ErrDraftIncomplete)
		}
		view.DataSufficiency = &DataSufficiencyView{
			Context:       d.Context,
			Statements:    [2]string{d.Statement1, d.Statement2},
			Choices:       models.DataSufficiencyChoices,
			CorrectAnswer: *d.CorrectAnswer,
		}
	case *models.GraphicsInterpretationDraft:
		segments := template.Resolve(d.ConclusionTemplate, template.Bindings{Dropdowns: d.Dropdowns})
		view.GraphicsInterpretation = &GraphicsInterpretationView{
			Image:       d.Image,
			Description: d.Description,
			Instruction: d.Instruction,
			Conclusion:  segments,
			Text:        template.PlainText(segments),
		}
	case *models.MultiSourceDraft:
		tabs := make([]SourceView, 0, len(d.Sources))
		for _, src := range d.Sources {
			tabs = append(tabs, sourceView(src))
		}
		view.MultiSource = &MultiSourceView{
			Tabs:                  tabs,
			StatementsInstruction: d.StatementsInstruction,
			Statements:            d.Statements,
		}
	case *models.TableAnalysisDraft:
		sortBy := d.SortBy
		if opts.SortBy != nil {
			sortBy = *opts.SortBy
		}
		view.TableAnalysis = &TableAnalysisView{
			Instructions: d.Instructions,
			SortBy:       sortBy,
			SortOptions:  d.Table.Headers,
			Table:        tableView(d.Table, sortBy),
			Statements:   d.Statements,
		}
	case *models.TwoPartAnalysisDraft:
		rows := make([]TwoPartRow, len(d.TableRows))
		for i, label := range d.TableRows {
			selected := make([]bool, len(d.TableHeaders))
			for col := range selected {
				selected[col] = d.CorrectAnswers.Selected(i, col)
			}
			value := ""
			if i < len(d.TableValues) {
				value = d.TableValues[i]
			}
			rows[i] = TwoPartRow{Label: label, Value: value, Selected: selected}
		}
		view.TwoPartAnalysis = &TwoPartAnalysisView{
			Context:     d.Context,
			Instruction: d.Instruction,
			Headers:     d.TableHeaders,
			Rows:        rows,
		}
	default:
		return nil, fmt.Errorf("preview %s: %w", draftType(snap.Draft), ErrWrongQuestionType)
	}
	return view, nil
}

func sourceView(src models.DataSource) SourceView {
	sv := SourceView{ID: src.ID, Title: src.Title, Kind: src.Kind}
	switch src.Kind {
	case models.SourceInstructions:
		sv.Content = src.Content
		sv.Before = src.Instructions
	case models.SourceImage:
		sv.Image = src.Image
		sv.Before = src.Instructions
	case models.SourceTable:
		before, after, _ := template.SplitTable(src.Instructions)
		sv.Before, sv.After = before, after
		sv.TableTitle = src.TableTitle
		sv.FooterTitle = src.FooterTitle
		if src.Table != nil {
			tv := tableView(src.Table, "")
			sv.Table = &tv
		}
	}
	return sv
}

func tableView(g *models.Grid, sortBy string) TableView {
	if g == nil {
		return TableView{}
	}
	kinds := make([]string, len(g.Headers))
	for i, h := range g.Headers {
		kinds[i] = string(tablesort.KindForHeader(h))
	}
	return TableView{
		Headers: g.Headers,
		Kinds:   kinds,
		Rows:    tablesort.SortRows(g, sortBy),
	}
}
