package gallery

import (
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tplgallery/header/internal/cache"
	"github.com/tplgallery/header/internal/filter"
)

var catalog = []string{"Classic Professional", "Modern Minimal", "Academic CV", "Two Column Tech"}

func TestMatchesEverythingWithoutTerm(t *testing.T) {
	g := New(cache.New(), catalog)
	defer g.Close()
	assert.Equal(t, catalog, g.Matches())
	assert.Contains(t, g.View(), "4 templates")
}

func TestFollowsSharedFilter(t *testing.T) {
	c := cache.New()
	g := New(c, catalog)
	defer g.Close()

	filter.SetSearchTerm(c, "cv")
	msg, ok := g.Init()().(filter.ChangedMsg)
	require.True(t, ok)

	g, cmd := g.Update(msg)
	assert.NotNil(t, cmd, "watch is re-armed")
	assert.Equal(t, "cv", g.Term())
	assert.Equal(t, []string{"Academic CV"}, g.Matches())
	assert.Contains(t, g.View(), `1 of 4 templates match "cv"`)
}

func TestIgnoresOtherWatches(t *testing.T) {
	c := cache.New()
	g := New(c, catalog)
	defer g.Close()
	other := filter.NewWatch(c)
	defer other.Close()

	filter.SetSearchTerm(c, "tech")
	msg := other.Next()().(filter.ChangedMsg)
	g, cmd := g.Update(msg)
	assert.Nil(t, cmd)
	assert.Equal(t, "", g.Term())
}

func TestStartsFromExistingTerm(t *testing.T) {
	c := cache.New()
	filter.SetSearchTerm(c, "MODERN")
	g := New(c, catalog)
	defer g.Close()
	assert.Equal(t, []string{"Modern Minimal"}, g.Matches())
}

func TestNoMatches(t *testing.T) {
	c := cache.New()
	filter.SetSearchTerm(c, "zzz")
	g := New(c, catalog)
	defer g.Close()
	assert.Empty(t, g.Matches())
	assert.Contains(t, g.View(), "No templates found")
}

func TestViewClipsToHeight(t *testing.T) {
	g := New(cache.New(), catalog)
	defer g.Close()
	g.Height = 4
	v := g.View()
	assert.Contains(t, v, "Classic Professional")
	assert.Contains(t, v, "2 more")
	assert.NotContains(t, v, "Two Column Tech")
}

func TestFindFold(t *testing.T) {
	tests := []struct {
		s, sub     string
		start, end int
		ok         bool
	}{
		{"Academic CV", "cv", 9, 11, true},
		{"Modern Minimal", "MIN", 7, 10, true},
		{"İstanbul Classic", "classic", 10, 17, true},
		{"İstanbul", "stan", 2, 6, true},
		{"Résumé", "SUM", 3, 6, true},
		{"Tech", "techno", 0, 0, false},
		{"Tech", "", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.s+"/"+tt.sub, func(t *testing.T) {
			start, end, ok := findFold(tt.s, tt.sub)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.start, start)
				assert.Equal(t, tt.end, end)
				assert.True(t, utf8.ValidString(tt.s[:start]))
				assert.True(t, utf8.ValidString(tt.s[start:end]))
			}
		})
	}
}

func TestHighlightKeepsRunesWhole(t *testing.T) {
	c := cache.New()
	filter.SetSearchTerm(c, "classic")
	g := New(c, []string{"İstanbul Classic"})
	defer g.Close()

	v := g.View()
	assert.True(t, utf8.ValidString(v))
	assert.Contains(t, ansi.Strip(v), "İstanbul Classic")
}
