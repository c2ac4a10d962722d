// Package llm provides the completion and image-generation clients used by pennywise.
// It supports OpenAI and Anthropic providers, with retry logic and client-side
// rate limiting layered on top by Resilient.
package llm
