package chef

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_StartsWithGreeting(t *testing.T) {
	chat := New(llm.NewMockClient(), nil)
	assert.Equal(t, []llm.Message{llm.Assistant("How may I help you?")}, chat.Transcript())
}

func TestChat_Ask(t *testing.T) {
	client := llm.NewMockClient("Salt the pasta water.", "Rest the steak.")
	chat := New(client, nil)

	reply, err := chat.Ask(context.Background(), "How do I cook pasta?")
	require.NoError(t, err)
	assert.Equal(t, "Salt the pasta water.", reply)

	_, err = chat.Ask(context.Background(), "  And steak? ")
	require.NoError(t, err)

	assert.Equal(t, []llm.Message{
		llm.Assistant(Greeting),
		llm.User("How do I cook pasta?"),
		llm.Assistant("Salt the pasta water."),
		llm.User("And steak?"),
		llm.Assistant("Rest the steak."),
	}, chat.Transcript())

	calls := client.Calls()
	require.Len(t, calls, 2)
	for _, call := range calls {
		require.Len(t, call.Messages, 2, "each question is sent on its own")
		assert.Equal(t, llm.RoleSystem, call.Messages[0].Role)
		assert.Contains(t, call.Messages[0].Content, "2 michelin star chef")
		assert.Equal(t, 1000, call.MaxTokens)
	}
	assert.Equal(t, "And steak?", calls[1].Messages[1].Content)
}

func TestChat_AskErrors(t *testing.T) {
	t.Run("empty prompt", func(t *testing.T) {
		client := llm.NewMockClient("anything")
		chat := New(client, nil)

		_, err := chat.Ask(context.Background(), "   ")
		assert.True(t, common.IsValidation(err))
		assert.Zero(t, client.CallCount())
		assert.Len(t, chat.Transcript(), 1)
	})

	t.Run("service failure leaves transcript unchanged", func(t *testing.T) {
		client := llm.NewMockClient()
		client.Err = errors.New("boom")
		chat := New(client, nil)

		_, err := chat.Ask(context.Background(), "How long to boil an egg?")
		require.Error(t, err)
		assert.True(t, common.IsService(err))
		assert.Len(t, chat.Transcript(), 1)
	})
}
