// Package story writes a short story for a topic and illustrates it with
// generated cover art.
package story

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/llm"
)

const (
	storySystemPrompt = `You are a story teller.
You have accomplished young adult short stories for 5 years.
Given a topic, write a plot twist, heart breaking love stories with a closed ending. Do not involve moving out as a way to heartbreak.
The story must be 150-200 words long.`

	coverSystemPrompt = `You are tasked with generating a prompt for a cover art.
A story will be given and you have to analyse and digest the contents
and extract the main elements or essence of the story. Write a short prompt to produce
relevant cover art.`

	temperature = 1.0
	maxTokens   = 1000
)

// Default image settings for cover art.
const (
	DefaultImageModel = "dall-e-3"
	ImageSize         = "1024x1024"
	ImageQuality      = "standard"
	ImageStyle        = "natural"
)

// Client is the completion and image service a Writer needs.
type Client interface {
	llm.Client
	llm.ImageGenerator
}

// Book is a finished story with its cover.
type Book struct {
	Topic    string `json:"topic"`
	Story    string `json:"story"`
	Caption  string `json:"caption"`
	CoverURL string `json:"cover_url"`
}

// Writer produces books.
type Writer struct {
	client     Client
	logger     *slog.Logger
	imageModel string
}

// New creates a writer. An empty imageModel means DefaultImageModel.
func New(client Client, imageModel string, logger *slog.Logger) *Writer {
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	return &Writer{
		client:     client,
		imageModel: imageModel,
		logger:     common.LoggerOrDefault(logger),
	}
}

// Create writes the story, derives a cover prompt from it and renders the
// cover, in that order. Any failed step fails the whole book.
func (w *Writer) Create(ctx context.Context, topic string) (Book, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Book{}, common.NewValidationError("topic", "must not be empty")
	}

	text, err := w.complete(ctx, "story", storySystemPrompt, topic)
	if err != nil {
		return Book{}, err
	}

	caption, err := w.complete(ctx, "cover prompt", coverSystemPrompt, text)
	if err != nil {
		return Book{}, err
	}

	url, err := w.client.GenerateImage(ctx, llm.ImageRequest{
		Model:   w.imageModel,
		Prompt:  caption,
		Size:    ImageSize,
		Quality: ImageQuality,
		Style:   ImageStyle,
	})
	if err != nil {
		w.logger.Error("Cover art failed", "error", err)
		return Book{}, &common.ServiceError{Op: "cover art", Err: err}
	}

	w.logger.Info("Story created", "topic", topic, "words", len(strings.Fields(text)))
	return Book{
		Topic:    topic,
		Story:    text,
		Caption:  caption,
		CoverURL: url,
	}, nil
}

func (w *Writer) complete(ctx context.Context, op, system, prompt string) (string, error) {
	reply, err := w.client.Complete(ctx, llm.CompletionRequest{
		Messages:    []llm.Message{llm.System(system), llm.User(prompt)},
		Temperature: llm.Float(temperature),
		MaxTokens:   maxTokens,
	})
	if err != nil {
		w.logger.Error("Story request failed", "op", op, "error", err)
		return "", &common.ServiceError{Op: op, Err: err}
	}
	return reply, nil
}
