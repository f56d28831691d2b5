package display

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beamline-Tech/beamline/internal/model"
)

func strPtr(s string) *string { return &s }

func testContent(id string) model.Content {
	return model.Content{
		ID:       id,
		Title:    "content " + id,
		Duration: 20,
		ImageURL: strPtr("https://cdn.example.com/" + id + ".png"),
	}
}

func fetchFrom(contents map[string]model.Content) func(string) (model.Content, error) {
	return func(id string) (model.Content, error) {
		c, ok := contents[id]
		if !ok {
			return model.Content{}, fmt.Errorf("content %s not found", id)
		}
		return c, nil
	}
}

func TestResolveMedia_Priority(t *testing.T) {
	c := model.Content{
		VideoURL: strPtr("v.mp4"),
		ImageURL: strPtr("i.png"),
		DocURL:   strPtr("d.pdf"),
	}
	assert.Equal(t, MediaRef{Kind: MediaVideo, URL: "v.mp4"}, ResolveMedia(c))

	c.VideoURL = nil
	assert.Equal(t, MediaRef{Kind: MediaImage, URL: "i.png"}, ResolveMedia(c))

	c.ImageURL = strPtr("")
	assert.Equal(t, MediaRef{Kind: MediaDocument, URL: "d.pdf"}, ResolveMedia(c))

	c.DocURL = nil
	assert.Equal(t, MediaNone, ResolveMedia(c).Kind)
}

func TestNormalizeDuration(t *testing.T) {
	assert.Equal(t, 15*time.Second, NormalizeDuration(0))
	assert.Equal(t, 15*time.Second, NormalizeDuration(-3))
	assert.Equal(t, 1*time.Second, NormalizeDuration(1))
	assert.Equal(t, 45*time.Second, NormalizeDuration(45))
}

func TestBuildPlaylist_DedupesFirstSeen(t *testing.T) {
	contents := map[string]model.Content{
		"a": testContent("a"),
		"b": testContent("b"),
	}
	records := []model.Broadcast{
		{ID: "1", ContentID: "a", TvID: "tv-1", Status: model.BroadcastStatusActive},
		{ID: "2", ContentID: "b", TvID: "tv-1", Status: model.BroadcastStatusActive},
		{ID: "3", ContentID: "a", TvID: "tv-1", Status: model.BroadcastStatusActive},
	}

	items := BuildPlaylist(records, fetchFrom(contents))
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ContentID)
	assert.Equal(t, "b", items[1].ContentID)
}

func TestBuildPlaylist_SkipsStoppedRecords(t *testing.T) {
	contents := map[string]model.Content{
		"a": testContent("a"),
		"b": testContent("b"),
	}
	records := []model.Broadcast{
		{ID: "1", ContentID: "a", TvID: "tv-1", Status: model.BroadcastStatusStopped},
		{ID: "2", ContentID: "b", TvID: "tv-1", Status: model.BroadcastStatusPaused},
	}

	items := BuildPlaylist(records, fetchFrom(contents))
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ContentID)
}

func TestBuildPlaylist_SkipsUnresolvableContent(t *testing.T) {
	contents := map[string]model.Content{
		"a": testContent("a"),
	}
	records := []model.Broadcast{
		{ID: "1", ContentID: "missing", TvID: "tv-1", Status: model.BroadcastStatusActive},
		{ID: "2", ContentID: "a", TvID: "tv-1", Status: model.BroadcastStatusActive},
	}

	items := BuildPlaylist(records, fetchFrom(contents))
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ContentID)
}

func TestBuildPlaylist_NoneMediaIsStillASlot(t *testing.T) {
	bare := model.Content{ID: "bare", Title: "no media", Duration: 10}
	records := []model.Broadcast{
		{ID: "1", ContentID: "bare", TvID: "tv-1", Status: model.BroadcastStatusActive},
	}

	items := BuildPlaylist(records, fetchFrom(map[string]model.Content{"bare": bare}))
	require.Len(t, items, 1)
	assert.Equal(t, MediaNone, items[0].Media.Kind)
	assert.Equal(t, 10*time.Second, items[0].Duration)
}
