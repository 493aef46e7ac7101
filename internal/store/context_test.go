package store

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextBasic(t *testing.T) {
	s := newTestStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Remember(ctx, "名字", "小明"))
	require.NoError(t, s.Remember(ctx, "生日", "1月1日"))
	require.NoError(t, s.Remember(ctx, "城市", "北京"))

	result := s.Context(ContextParams{Query: "你还记得我的名字和生日吗"})

	assert.Equal(t, DefaultContextBudget, result.Budget)
	assert.Equal(t, []ContextMemory{
		{Key: "名字", Value: "小明"},
		{Key: "生日", Value: "1月1日"},
	}, result.Memories)
	assert.Equal(t, utf8.RuneCountInString("名字: 小明")+utf8.RuneCountInString("生日: 1月1日"), result.Used)
	assert.Equal(t, "- 名字: 小明\n- 生日: 1月1日\n", result.Prompt())
}

func TestContextBudgetLimit(t *testing.T) {
	s := newTestStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Remember(ctx, "go", "Go is great for programming"))
	require.NoError(t, s.Remember(ctx, "golang notes", strings.Repeat("goroutines and channels. ", 20)))
	require.NoError(t, s.Remember(ctx, "gopher", "mascot"))

	result := s.Context(ContextParams{Query: "go", Budget: 80})

	require.Len(t, result.Memories, 2)
	assert.False(t, result.Memories[0].Excerpt)
	assert.True(t, result.Memories[1].Excerpt)
	assert.True(t, strings.HasSuffix(result.Memories[1].Value, "…"))
	assert.Equal(t, 80, result.Used)
}

func TestContextNoRoomForExcerpt(t *testing.T) {
	s := newTestStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Remember(ctx, "a", strings.Repeat("x", 30)))
	require.NoError(t, s.Remember(ctx, "ab", strings.Repeat("y", 30)))

	result := s.Context(ContextParams{Query: "ab", Budget: 40})

	require.Len(t, result.Memories, 1)
	assert.Equal(t, "a", result.Memories[0].Key)
}

func TestContextEmpty(t *testing.T) {
	s := newTestStore(t, t.TempDir())

	result := s.Context(ContextParams{Query: "anything"})
	assert.Empty(t, result.Memories)
	assert.Zero(t, result.Used)
	assert.Empty(t, result.Prompt())
}
