package story

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Create(t *testing.T) {
	client := llm.NewMockClient("Once upon a time in Penang.", "A lantern over a rainy street.")
	client.ImageURL = "https://images.example/cover.png"
	w := New(client, "", nil)

	book, err := w.Create(context.Background(), "  rainy night market ")
	require.NoError(t, err)

	assert.Equal(t, Book{
		Topic:    "rainy night market",
		Story:    "Once upon a time in Penang.",
		Caption:  "A lantern over a rainy street.",
		CoverURL: "https://images.example/cover.png",
	}, book)

	calls := client.Calls()
	require.Len(t, calls, 2)

	assert.Contains(t, calls[0].Messages[0].Content, "story teller")
	assert.Equal(t, "rainy night market", calls[0].Messages[1].Content)
	assert.Contains(t, calls[1].Messages[0].Content, "cover art")
	assert.Equal(t, "Once upon a time in Penang.", calls[1].Messages[1].Content)
	for _, call := range calls {
		require.NotNil(t, call.Temperature)
		assert.InDelta(t, 1.0, *call.Temperature, 0.0001)
		assert.Equal(t, 1000, call.MaxTokens)
	}

	images := client.ImageCalls()
	require.Len(t, images, 1)
	assert.Equal(t, llm.ImageRequest{
		Model:   "dall-e-3",
		Prompt:  "A lantern over a rainy street.",
		Size:    "1024x1024",
		Quality: "standard",
		Style:   "natural",
	}, images[0])
}

func TestWriter_CreateErrors(t *testing.T) {
	t.Run("empty topic", func(t *testing.T) {
		client := llm.NewMockClient("story")
		_, err := New(client, "", nil).Create(context.Background(), " ")

		assert.True(t, common.IsValidation(err))
		assert.Zero(t, client.CallCount())
		assert.Empty(t, client.ImageCalls())
	})

	t.Run("story failure stops early", func(t *testing.T) {
		client := llm.NewMockClient()
		client.Err = errors.New("unavailable")
		_, err := New(client, "", nil).Create(context.Background(), "dragons")

		assert.True(t, common.IsService(err))
		assert.Equal(t, 1, client.CallCount())
		assert.Empty(t, client.ImageCalls())
	})

	t.Run("image failure", func(t *testing.T) {
		client := llm.NewMockClient("story", "caption")
		client.ImageErr = errors.New("content policy")
		_, err := New(client, "dall-e-2", nil).Create(context.Background(), "dragons")

		assert.True(t, common.IsService(err))
		assert.ErrorContains(t, err, "content policy")
		require.Len(t, client.ImageCalls(), 1)
		assert.Equal(t, "dall-e-2", client.ImageCalls()[0].Model)
	})
}
