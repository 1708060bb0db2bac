package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStripsReservedParams(t *testing.T) {
	params := url.Values{}
	params.Set("page", "3")
	params.Set("limit", "5")
	params.Set("sort", "title")
	params.Set("genre", "Fantasy")

	plan, err := Build(params, nil)
	require.NoError(t, err)

	assert.Equal(t, "genre = $1", plan.Where)
	assert.Equal(t, []interface{}{"Fantasy"}, plan.Args)
	assert.Equal(t, 3, plan.Page)
	assert.Equal(t, 5, plan.Limit)
	assert.Equal(t, 10, plan.Offset)
}

func TestBuildOperatorSuffixes(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		wantSQL  string
		wantArgs []interface{}
	}{
		{"equality", "genre", "Fantasy", "genre = $1", []interface{}{"Fantasy"}},
		{"greater than", "rating[gt]", "3", "rating > $1", []interface{}{"3"}},
		{"greater or equal", "publishedYear[gte]", "2000", "published_year >= $1", []interface{}{"2000"}},
		{"less than", "rating[lt]", "4", "rating < $1", []interface{}{"4"}},
		{"less or equal", "publishedYear[lte]", "1999", "published_year <= $1", []interface{}{"1999"}},
		{"not equal", "genre[ne]", "Horror", "genre <> $1", []interface{}{"Horror"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{}
			params.Set(tt.key, tt.value)

			plan, err := Build(params, map[string]string{"publishedYear": "published_year"})
			require.NoError(t, err)

			assert.Equal(t, tt.wantSQL, plan.Where)
			assert.Equal(t, tt.wantArgs, plan.Args)
		})
	}
}

func TestBuildInOperatorExpandsList(t *testing.T) {
	params := url.Values{}
	params.Set("genre[in]", "Fantasy, Sci-Fi,Horror")

	plan, err := Build(params, nil)
	require.NoError(t, err)

	assert.Equal(t, "genre IN ($1, $2, $3)", plan.Where)
	assert.Equal(t, []interface{}{"Fantasy", "Sci-Fi", "Horror"}, plan.Args)
}

func TestBuildIsDeterministic(t *testing.T) {
	params := url.Values{}
	params.Set("genre", "Fantasy")
	params.Set("author", "Tolkien")
	params.Set("publishedYear[gte]", "1950")

	first, err := Build(params, nil)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := Build(params, nil)
		require.NoError(t, err)
		assert.Equal(t, first.Where, again.Where)
		assert.Equal(t, first.Args, again.Args)
	}

	// Sorted key order: author before genre before publishedYear.
	assert.Equal(t, "author = $1 AND genre = $2 AND published_year >= $3", first.Where)
}

func TestBuildRejectsNonIdentifierField(t *testing.T) {
	tests := []string{
		"title; DROP TABLE books",
		"title'",
		"a b",
		"title)",
	}

	for _, key := range tests {
		params := url.Values{}
		params.Set(key, "x")

		_, err := Build(params, nil)
		assert.ErrorIs(t, err, ErrInvalidField, "key %q", key)
	}
}

func TestBuildRejectsUnknownOperatorSuffix(t *testing.T) {
	params := url.Values{}
	params.Set("rating[like]", "5")

	_, err := Build(params, nil)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestBuildSort(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want string
	}{
		{"default is newest first", "", "created_at DESC"},
		{"ascending field", "title", "title ASC"},
		{"descending prefix", "-rating", "rating DESC"},
		{"multiple fields", "genre,-createdAt", "genre ASC, created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{}
			if tt.sort != "" {
				params.Set("sort", tt.sort)
			}

			plan, err := Build(params, map[string]string{"createdAt": "created_at"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.OrderBy)
		})
	}
}

func TestBuildSortRejectsInjection(t *testing.T) {
	params := url.Values{}
	params.Set("sort", "title; DROP TABLE books")

	_, err := Build(params, nil)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestParsePageDefaults(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"absent", "", "", 1, 10},
		{"explicit", "4", "25", 4, 25},
		{"non-numeric", "abc", "xyz", 1, 10},
		{"zero", "0", "0", 1, 10},
		{"negative", "-2", "-5", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{}
			if tt.page != "" {
				params.Set("page", tt.page)
			}
			if tt.limit != "" {
				params.Set("limit", tt.limit)
			}

			page, limit := ParsePage(params)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page has both links", func(t *testing.T) {
		p := NewPagination(2, 10, 25)
		require.NotNil(t, p.Next)
		require.NotNil(t, p.Prev)
		assert.Equal(t, PageRef{Page: 3, Limit: 10}, *p.Next)
		assert.Equal(t, PageRef{Page: 1, Limit: 10}, *p.Prev)
	})

	t.Run("first page of many has next only", func(t *testing.T) {
		p := NewPagination(1, 10, 25)
		assert.NotNil(t, p.Next)
		assert.Nil(t, p.Prev)
	})

	t.Run("last page has prev only", func(t *testing.T) {
		p := NewPagination(2, 10, 15)
		assert.Nil(t, p.Next)
		require.NotNil(t, p.Prev)
		assert.Equal(t, PageRef{Page: 1, Limit: 10}, *p.Prev)
	})

	t.Run("single page has neither", func(t *testing.T) {
		p := NewPagination(1, 10, 7)
		assert.Nil(t, p.Next)
		assert.Nil(t, p.Prev)
	})

	t.Run("exact multiple has no next on last page", func(t *testing.T) {
		p := NewPagination(2, 10, 20)
		assert.Nil(t, p.Next)
		assert.NotNil(t, p.Prev)
	})

	t.Run("empty result set", func(t *testing.T) {
		p := NewPagination(1, 10, 0)
		assert.Nil(t, p.Next)
		assert.Nil(t, p.Prev)
	})
}

func TestResolveColumn(t *testing.T) {
	columns := map[string]string{"publishedYear": "published_year"}

	t.Run("mapped name wins", func(t *testing.T) {
		col, err := ResolveColumn("publishedYear", columns)
		require.NoError(t, err)
		assert.Equal(t, "published_year", col)
	})

	t.Run("unmapped name falls back to snake case", func(t *testing.T) {
		col, err := ResolveColumn("someField", columns)
		require.NoError(t, err)
		assert.Equal(t, "some_field", col)
	})

	t.Run("non-identifier rejected", func(t *testing.T) {
		_, err := ResolveColumn("1=1 OR title", columns)
		assert.ErrorIs(t, err, ErrInvalidField)
	})
}
