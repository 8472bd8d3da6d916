// Package completion talks to the external large-language-model API.
// It offers text-only and text+image completions behind one Client interface
// and supports OpenAI and Gemini backends.
package completion

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMissingAPIKey is returned by every call when no API key is configured.
	ErrMissingAPIKey = errors.New("completion API key is not configured")
	// ErrUnknownBackend is returned by NewClient for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown completion backend")
	// ErrEmptyCompletion is returned when the model answered with no text.
	ErrEmptyCompletion = errors.New("completion returned no content")
)

// Result is the outcome of a single completion attempt: either Text on
// success or Err on failure.
type Result struct {
	Text string
	Err  error
}

// Success wraps completion text in a successful Result.
func Success(text string) Result {
	return Result{Text: text}
}

// Failure wraps err in a failed Result.
func Failure(err error) Result {
	return Result{Err: err}
}

// OK reports whether the completion succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// ImageKind tells how an ImageRef value must be interpreted.
type ImageKind string

const (
	// ImageURL is an absolute http(s) URL.
	ImageURL ImageKind = "url"
	// ImageInlineBase64 is a base64-encoded payload.
	ImageInlineBase64 ImageKind = "inline_base64"
)

// InlineMediaType is the media type assumed for inline base64 images.
const InlineMediaType = "image/jpeg"

// ImageRef points at the image attached to a completion prompt.
type ImageRef struct {
	Kind  ImageKind
	Value string
}

// NewImageRef classifies an image payload. Values starting with "http" are
// treated as URLs, anything else as inline base64 data.
func NewImageRef(image string) ImageRef {
	if strings.HasPrefix(image, "http") {
		return ImageRef{Kind: ImageURL, Value: image}
	}
	return ImageRef{Kind: ImageInlineBase64, Value: image}
}

// URL returns the reference as a URL usable in a chat message: the URL itself,
// or a data URL for inline payloads.
func (r ImageRef) URL() string {
	if r.Kind == ImageURL {
		return r.Value
	}
	return "data:" + InlineMediaType + ";base64," + r.Value
}

// Client is a chat-completion API. A single attempt is made per call.
type Client interface {
	// Complete sends a system instruction and one user turn.
	Complete(ctx context.Context, systemPrompt, userMessage string) Result

	// CompleteWithImage sends one user turn made of an instruction and an image.
	CompleteWithImage(ctx context.Context, instruction string, image ImageRef, maxOutputTokens int) Result
}

// unavailableClient fails every call with the same error. It stands in for a
// backend that cannot be reached, e.g. because no API key was configured.
type unavailableClient struct {
	err error
}

func (c unavailableClient) Complete(context.Context, string, string) Result {
	return Failure(c.err)
}

func (c unavailableClient) CompleteWithImage(context.Context, string, ImageRef, int) Result {
	return Failure(c.err)
}
