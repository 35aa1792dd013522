package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/di-authoring-service/internal/cache"
	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/SAP-F-2025/di-authoring-service/internal/template"
	"github.com/SAP-F-2025/di-authoring-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct{}

func (failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("cache down")
}

func (failingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("cache down")
}

func (failingCache) Delete(ctx context.Context, key string) error {
	return errors.New("cache down")
}

func (failingCache) DeletePattern(ctx context.Context, pattern string) error {
	return errors.New("cache down")
}

func snapshotOf(t *testing.T, draft models.Draft) *DraftSnapshot {
	t.Helper()
	return NewSession(draft, validator.NewQuestionValidator()).Snapshot()
}

func TestRender_RefusesIncompleteDraft(t *testing.T) {
	svc := NewPreviewService(cache.NewMemoryCache(), time.Minute, newTestLogger())

	_, err := svc.Render(context.Background(), snapshotOf(t, models.NewTwoPartAnalysisDraft()), PreviewOptions{})
	incomplete, ok := IsIncomplete(err)
	require.True(t, ok)
	assert.Equal(t, []string{"context", "instruction"}, incomplete.Completeness.Missing)
}

func TestRender_CachesPerRevision(t *testing.T) {
	store := cache.NewMemoryCache()
	svc := NewPreviewService(store, time.Minute, newTestLogger())
	ctx := context.Background()
	snap := snapshotOf(t, sample(t, models.TableAnalysis))

	view, err := svc.Render(ctx, snap, PreviewOptions{})
	require.NoError(t, err)

	var cached PreviewView
	require.NoError(t, store.Get(ctx, "preview:"+snap.ID+":0", &cached))
	assert.Equal(t, view.TableAnalysis.Table.Rows, cached.TableAnalysis.Table.Rows)

	sortBy := "Runner"
	_, err = svc.Render(ctx, snap, PreviewOptions{SortBy: &sortBy})
	require.NoError(t, err)
	require.NoError(t, store.Get(ctx, "preview:"+snap.ID+":0:sort=Runner", &cached))

	svc.Invalidate(ctx, snap.ID)
	assert.ErrorIs(t, store.Get(ctx, "preview:"+snap.ID+":0", &cached), cache.ErrCacheMiss)
	assert.ErrorIs(t, store.Get(ctx, "preview:"+snap.ID+":0:sort=Runner", &cached), cache.ErrCacheMiss)
}

func TestRender_CacheFailuresAreNotFatal(t *testing.T) {
	svc := NewPreviewService(failingCache{}, time.Minute, newTestLogger())
	snap := snapshotOf(t, sample(t, models.DataSufficiency))

	view, err := svc.Render(context.Background(), snap, PreviewOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, view.DataSufficiency.CorrectAnswer)
	svc.Invalidate(context.Background(), snap.ID)
}

func TestBuildPreview_GraphicsInterpretation(t *testing.T) {
	d := sample(t, models.GraphicsInterpretation).(*models.GraphicsInterpretationDraft)
	d.Image = "data:image/png;base64,AAAA"
	require.NoError(t, d.SelectOption(1, "2"))

	view, err := BuildPreview(snapshotOf(t, d), PreviewOptions{})
	require.NoError(t, err)

	gi := view.GraphicsInterpretation
	require.NotNil(t, gi)
	assert.Equal(t, "The ratio of Product A revenue to Product B revenue in Q4 is closest to 2 to [dropdown2].", gi.Text)
	require.Len(t, gi.Conclusion, 5)
	assert.Equal(t, template.SegmentDropdown, gi.Conclusion[1].Kind)
	assert.Equal(t, []string{"1", "2", "3"}, gi.Conclusion[1].Options)
	assert.Equal(t, "2", gi.Conclusion[1].Selected)
	assert.Equal(t, template.Segment{Kind: template.SegmentText, Text: "."}, gi.Conclusion[4])
}

func TestBuildPreview_MultiSource(t *testing.T) {
	view, err := BuildPreview(snapshotOf(t, sample(t, models.MultiSource)), PreviewOptions{})
	require.NoError(t, err)

	ms := view.MultiSource
	require.NotNil(t, ms)
	require.Len(t, ms.Tabs, 2)

	text := ms.Tabs[0]
	assert.Equal(t, "Email 1", text.Title)
	assert.Equal(t, "The marketing team proposes moving the product launch to March.", text.Content)
	assert.Nil(t, text.Table)

	table := ms.Tabs[1]
	assert.Equal(t, "Regional sales for the last quarter:\n", table.Before)
	assert.Equal(t, "\nFigures in thousands.", table.After)
	assert.Equal(t, "Quarterly sales", table.TableTitle)
	require.NotNil(t, table.Table)
	assert.Equal(t, []string{"text", "text", "percentage"}, table.Table.Kinds)
	assert.Equal(t, [][]string{{"North", "120", "4%"}, {"South", "95", "7%"}}, table.Table.Rows)
	assert.Len(t, ms.Statements, 2)
}

func TestBuildPreview_TwoPartSelection(t *testing.T) {
	view, err := BuildPreview(snapshotOf(t, sample(t, models.TwoPartAnalysis)), PreviewOptions{})
	require.NoError(t, err)

	tp := view.TwoPartAnalysis
	require.NotNil(t, tp)
	assert.Equal(t, []string{"Pens", "Notebooks"}, tp.Headers)
	assert.Equal(t, []TwoPartRow{
		{Label: "A", Value: "2", Selected: []bool{false, false}},
		{Label: "B", Value: "3", Selected: []bool{false, true}},
		{Label: "C", Value: "5", Selected: []bool{false, false}},
		{Label: "D", Value: "7", Selected: []bool{true, false}},
	}, tp.Rows)
}

func TestBuildPreview_UnknownSortColumnKeepsOrder(t *testing.T) {
	snap := snapshotOf(t, sample(t, models.TableAnalysis))
	missing := "Shoe size"

	view, err := BuildPreview(snap, PreviewOptions{SortBy: &missing})
	require.NoError(t, err)
	assert.Equal(t, "Shoe size", view.TableAnalysis.SortBy)
	assert.Equal(t, []string{"Ada", "Ben", "Cy", "Dee"}, firstColumn(view.TableAnalysis.Table.Rows))
}
