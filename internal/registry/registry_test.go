package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-upgrade/internal/registry"
)

func TestParseSearch(t *testing.T) {
	tests := []struct {
		name      string
		crate     string
		text      string
		want      string
		wantFound bool
	}{
		{
			name:      "exact match",
			crate:     "foo",
			text:      "foo = \"1.3.0\"    # A foo crate\n",
			want:      "1.3.0",
			wantFound: true,
		},
		{
			name:      "prerelease version",
			crate:     "bar",
			text:      `bar = "2.0.0-rc.1"`,
			want:      "2.0.0-rc.1",
			wantFound: true,
		},
		{
			name:  "different crate ranks first",
			crate: "foo",
			text:  `foo-cli = "0.9.0"    # not the same crate`,
		},
		{
			name:  "crate name is a suffix of the result",
			crate: "grep",
			text:  `ripgrep = "14.1.0"`,
		},
		{
			name:  "empty response",
			crate: "gone",
			text:  "",
		},
		{
			name:  "leading whitespace",
			crate: "foo",
			text:  ` foo = "1.0.0"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := registry.ParseSearch(tt.crate, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSearch_UnterminatedVersion(t *testing.T) {
	_, found, err := registry.ParseSearch("foo", `foo = "1.3.0`)

	require.ErrorIs(t, err, registry.ErrUnterminatedVersion)
	assert.False(t, found)
}

type stubSearcher struct {
	responses map[string]string
	err       error
	queried   []string
}

func (s *stubSearcher) Search(_ context.Context, name string) ([]byte, error) {
	s.queried = append(s.queried, name)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.responses[name]), nil
}

func TestResolver_Latest(t *testing.T) {
	searcher := &stubSearcher{responses: map[string]string{
		"ripgrep": `ripgrep = "14.1.0"    # fast grep`,
	}}
	resolver := registry.NewResolver(searcher)

	got, found, err := resolver.Latest(context.Background(), "ripgrep")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "14.1.0", got)
	assert.Equal(t, []string{"ripgrep"}, searcher.queried)
}

func TestResolver_LatestNoMatch(t *testing.T) {
	resolver := registry.NewResolver(&stubSearcher{responses: map[string]string{}})

	_, found, err := resolver.Latest(context.Background(), "unpublished")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolver_LatestPropagatesSearchError(t *testing.T) {
	boom := errors.New("spawn failed")
	resolver := registry.NewResolver(&stubSearcher{err: boom})

	_, _, err := resolver.Latest(context.Background(), "foo")

	require.ErrorIs(t, err, boom)
}
