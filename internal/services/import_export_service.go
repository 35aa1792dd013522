package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/SAP-F-2025/di-authoring-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	csvLineEnding = "\r\n"
	maxSheetName  = 31
)

// ImportExportService converts drafts to and from their file formats. It
// never mutates the draft it is given; imports always build fresh values.
type ImportExportService interface {
	// Export operations
	Export(ctx context.Context, draft models.Draft, format models.ExportFormat) (*models.ExportFile, error)
	ExportJSON(ctx context.Context, draft models.Draft) (*models.ExportFile, error)
	ExportCSV(ctx context.Context, draft models.Draft) (*models.ExportFile, error)
	ExportExcel(ctx context.Context, draft models.Draft) (*models.ExportFile, error)

	// Import operations
	ImportJSON(ctx context.Context, data []byte) (models.Draft, error)
	ImportCSV(ctx context.Context, data []byte) (*models.Grid, error)
	ImportVerbal(ctx context.Context, reader io.Reader, filename string) (*models.ImportSummary, error)
}

type importExportService struct {
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		logger:    logger,
		validator: validator,
	}
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) Export(ctx context.Context, draft models.Draft, format models.ExportFormat) (*models.ExportFile, error) {
	switch format {
	case models.ExportJSON:
		return s.ExportJSON(ctx, draft)
	case models.ExportCSV:
		return s.ExportCSV(ctx, draft)
	case models.ExportExcel:
		return s.ExportExcel(ctx, draft)
	default:
		return nil, fmt.Errorf("export %q: %w", format, ErrUnsupportedFormat)
	}
}

func (s *importExportService) ExportJSON(ctx context.Context, draft models.Draft) (*models.ExportFile, error) {
	data, err := EncodeDraft(draft)
	if err != nil {
		return nil, err
	}
	return &models.ExportFile{
		FileName:    draft.Type().QuestionFileName(),
		ContentType: contentTypeJSON,
		Data:        data,
	}, nil
}

func (s *importExportService) ExportCSV(ctx context.Context, draft models.Draft) (*models.ExportFile, error) {
	var buf strings.Builder

	switch d := draft.(type) {
	case *models.TableAnalysisDraft:
		if d.Table == nil {
			return nil, fmt.Errorf("export csv: %w", ErrNoTabularData)
		}
		writeCSVGrid(&buf, d.Table)
	case *models.MultiSourceDraft:
		sources := d.Grids()
		if len(sources) == 0 {
			return nil, fmt.Errorf("export csv: no table sources: %w", ErrNoTabularData)
		}
		for i, src := range sources {
			if i > 0 {
				buf.WriteString(csvLineEnding)
			}
			buf.WriteString("=== " + src.Title + " ===" + csvLineEnding)
			writeCSVGrid(&buf, src.Table)
		}
	default:
		return nil, fmt.Errorf("export csv for %s: %w", draftType(draft), ErrNoTabularData)
	}

	return &models.ExportFile{
		FileName:    draft.Type().DataFileName("csv"),
		ContentType: contentTypeCSV,
		Data:        []byte(buf.String()),
	}, nil
}

func (s *importExportService) ExportExcel(ctx context.Context, draft models.Draft) (*models.ExportFile, error) {
	type sheet struct {
		name string
		grid *models.Grid
	}
	var sheets []sheet

	switch d := draft.(type) {
	case *models.TableAnalysisDraft:
		if d.Table == nil {
			return nil, fmt.Errorf("export xlsx: %w", ErrNoTabularData)
		}
		sheets = append(sheets, sheet{name: "Table", grid: d.Table})
	case *models.MultiSourceDraft:
		used := make(map[string]bool)
		for _, src := range d.Grids() {
			sheets = append(sheets, sheet{name: sheetName(src.Title, used), grid: src.Table})
		}
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("export xlsx for %s: %w", draftType(draft), ErrNoTabularData)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", sh.name, err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sh.name, err)
		}
		if err := writeSheetGrid(f, sh.name, sh.grid, headerStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Debug("Excel export completed", "question_type", draft.Type(), "sheets", len(sheets))

	return &models.ExportFile{
		FileName:    draft.Type().DataFileName("xlsx"),
		ContentType: contentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportJSON(ctx context.Context, data []byte) (models.Draft, error) {
	draft, err := DecodeDraft(data)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateDraft(draft); err != nil {
		var ve ValidationErrors
		if errors.As(err, &ve) {
			return nil, apperrors.NewParseError("json", 0, "invalid question: "+ve.Error(), ve)
		}
		return nil, apperrors.NewParseError("json", 0, "invalid question", err)
	}
	return draft, nil
}

// ImportCSV reads a single flat table. The first non-blank line holds the
// headers; shorter rows are padded and longer rows rejected. A leading
// "=== title ===" marker line, as written by ExportCSV, is skipped.
func (s *importExportService) ImportCSV(ctx context.Context, data []byte) (*models.Grid, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var grid *models.Grid
	for i, line := range lines {
		lineNo := i + 1
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if grid == nil {
			if isSectionMarker(line) {
				continue
			}
			grid = &models.Grid{Headers: splitCSVLine(line), Rows: [][]string{}}
			continue
		}

		cells := splitCSVLine(line)
		if len(cells) > len(grid.Headers) {
			return nil, apperrors.NewParseError("csv", lineNo,
				fmt.Sprintf("row has %d cells but the header has %d", len(cells), len(grid.Headers)), nil)
		}
		for len(cells) < len(grid.Headers) {
			cells = append(cells, "")
		}
		grid.Rows = append(grid.Rows, cells)
	}

	if grid == nil {
		return nil, apperrors.NewParseError("csv", 0, "no header line", ErrEmptyFile)
	}
	return grid, nil
}

func (s *importExportService) ImportVerbal(ctx context.Context, reader io.Reader, filename string) (*models.ImportSummary, error) {
	start := time.Now()
	s.logger.Info("Starting verbal import", "filename", filename)

	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		records, err = readCSVRecords(reader)
	case ".xlsx", ".xls":
		records, err = readExcelRecords(reader)
	default:
		return nil, fmt.Errorf("verbal import %q: %w", ext, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(records))
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[normalizeHeader(header)] = i
	}
	for _, col := range []string{"id", "question", "correctanswer"} {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	summary := &models.ImportSummary{
		Questions: []models.VerbalQuestion{},
		Errors:    []models.ImportValidationError{},
	}
	for rowIndex, record := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if emptyRecord(record) {
			continue
		}
		summary.TotalRows++

		question, rowErrors := s.parseVerbalRow(record, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
		} else {
			summary.Questions = append(summary.Questions, question)
			summary.SuccessCount++
		}
		summary.ProcessedRows++
	}
	summary.ProcessingTime = time.Since(start)

	s.logger.Info("Verbal import completed",
		"filename", filename,
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	return summary, nil
}

func (s *importExportService) parseVerbalRow(record []string, headerMap map[string]int, rowNum int) (models.VerbalQuestion, []models.ImportValidationError) {
	get := func(col string) string {
		if idx, ok := headerMap[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	q := models.VerbalQuestion{
		ID:       get("id"),
		Passage:  get("passage"),
		Question: get("question"),
		Layout:   get("layout"),
		Options:  []string{},
	}
	for i := 1; i <= 5; i++ {
		if option := get(fmt.Sprintf("option%d", i)); option != "" {
			q.Options = append(q.Options, option)
		}
	}

	var rowErrors []models.ImportValidationError
	raw := get("correctanswer")
	answer, ok := parseVerbalAnswer(raw)
	if !ok {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row:     rowNum,
			Column:  "correctAnswer",
			Message: "correct answer must name an option number",
			Value:   raw,
			Code:    "INVALID_ANSWER",
		})
	}
	q.CorrectAnswer = answer

	if err := s.validator.ValidateStruct(q); err != nil {
		for _, ve := range apperrors.ToValidationErrors(err) {
			column := ve.Field
			if _, field, ok := strings.Cut(column, "."); ok {
				column = field
			}
			rowErrors = append(rowErrors, models.ImportValidationError{
				Row:     rowNum,
				Column:  column,
				Message: ve.Message,
				Value:   fmt.Sprint(ve.Value),
				Code:    "VALIDATION_ERROR",
			})
		}
	} else if ok && answer >= len(q.Options) {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row:     rowNum,
			Column:  "correctAnswer",
			Message: fmt.Sprintf("correct answer %d but only %d options", answer+1, len(q.Options)),
			Value:   raw,
			Code:    "ANSWER_OUT_OF_RANGE",
		})
	}

	return q, rowErrors
}

// ===== DRAFT CODEC =====

// EncodeDraft writes the pretty-printed {type, question} envelope.
func EncodeDraft(draft models.Draft) ([]byte, error) {
	if draft == nil {
		return nil, errors.New("encode draft: nil draft")
	}
	question, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s draft: %w", draft.Type(), err)
	}
	return json.MarshalIndent(models.Envelope{Type: draft.Type(), Question: question}, "", "  ")
}

// DecodeDraft reads an envelope into a fresh draft of the named variant.
// Structural validation is left to the caller.
func DecodeDraft(data []byte) (models.Draft, error) {
	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, apperrors.NewParseError("json", syntaxLine(data, err), "malformed JSON", err)
	}
	if env.Type == "" || len(env.Question) == 0 {
		return nil, apperrors.NewParseError("json", 0, "envelope needs both type and question", nil)
	}

	draft, err := emptyDraft(env.Type)
	if err != nil {
		return nil, apperrors.NewParseError("json", 0, err.Error(), err)
	}
	if err := json.Unmarshal(env.Question, draft); err != nil {
		return nil, apperrors.NewParseError("json", 0, fmt.Sprintf("invalid %s question", env.Type), err)
	}
	if tp, ok := draft.(*models.TwoPartAnalysisDraft); ok && tp.CorrectAnswers == nil {
		tp.CorrectAnswers = models.AnswerKey{}
	}
	return draft, nil
}

// emptyDraft returns a zero-valued draft so that decoding never mixes file
// content with constructor defaults.
func emptyDraft(t models.QuestionType) (models.Draft, error) {
	switch t {
	case models.MultiSource:
		return &models.MultiSourceDraft{}, nil
	case models.TableAnalysis:
		return &models.TableAnalysisDraft{}, nil
	case models.GraphicsInterpretation:
		return &models.GraphicsInterpretationDraft{}, nil
	case models.TwoPartAnalysis:
		return &models.TwoPartAnalysisDraft{}, nil
	case models.DataSufficiency:
		return &models.DataSufficiencyDraft{}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", t)
	}
}

// ===== HELPERS =====

// exportHeaders returns the header row written for g. Header-less grids get
// placeholder names so that the first data row is not read back as headers.
func exportHeaders(g *models.Grid) []string {
	if g.HasHeaders() {
		return g.Headers
	}
	headers := make([]string, g.Width())
	for i := range headers {
		headers[i] = fmt.Sprintf("Column %d", i+1)
	}
	return headers
}

func writeCSVGrid(buf *strings.Builder, g *models.Grid) {
	if headers := exportHeaders(g); len(headers) > 0 {
		buf.WriteString(strings.Join(headers, ",") + csvLineEnding)
	}
	for _, row := range g.Rows {
		buf.WriteString(strings.Join(row, ",") + csvLineEnding)
	}
}

func writeSheetGrid(f *excelize.File, sheet string, g *models.Grid, headerStyle int) error {
	rowNum := 1
	if headers := exportHeaders(g); len(headers) > 0 {
		if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
			return fmt.Errorf("failed to write headers of %s: %w", sheet, err)
		}
		last, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style headers of %s: %w", sheet, err)
		}
		rowNum++
	}
	for _, row := range g.Rows {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
		}
		rowNum++
	}
	return nil
}

// sheetName makes a title usable as a unique worksheet name.
func sheetName(title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Table"
	}
	name = truncateRunes(name, maxSheetName)

	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func splitCSVLine(line string) []string {
	cells := strings.Split(line, ",")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func isSectionMarker(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 6 && strings.HasPrefix(line, "===") && strings.HasSuffix(line, "===")
}

func readCSVRecords(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, apperrors.NewParseError("csv", pe.Line, pe.Err.Error(), err)
		}
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

func readExcelRecords(reader io.Reader) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewParseError("xlsx", 0, "cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

// normalizeHeader folds "Correct Answer", "correct_answer" and
// "correctAnswer" to the same key.
func normalizeHeader(header string) string {
	header = strings.TrimPrefix(header, "\ufeff")
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, strings.TrimSpace(header))
}

// parseVerbalAnswer converts a 1-based option number to a 0-based index.
// Text answers such as "Option 3" use their first digit.
func parseVerbalAnswer(raw string) (int, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return n - 1, n >= 1
	}
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			n := int(r - '0')
			return n - 1, n >= 1
		}
	}
	return 0, false
}

func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func syntaxLine(data []byte, err error) int {
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		return 0
	}
	offset := int(se.Offset)
	if offset > len(data) {
		offset = len(data)
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

func draftType(draft models.Draft) string {
	if draft == nil {
		return "unknown"
	}
	return string(draft.Type())
}
