// Package oracle turns free-form post content plus book metadata into a
// validated set of tags drawn from the existing vocabulary, by asking an
// external text-generation endpoint. The oracle is untrusted free text, so
// its reply is held to a strict schema: anything off by even one field
// aborts the whole post creation instead of persisting a half-tagged post.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/Park-yeongseo/Blog-Project/model"
	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	// A single attempt gets this long, end to end. Exceeding it is a
	// transport failure, not a validation failure.
	RequestTimeout = 60 * time.Second

	MinTags = 3
	MaxTags = 5
)

var (
	// ErrUnavailable covers everything transport-level: the endpoint is
	// unreachable, returns a non-success status, or times out.
	ErrUnavailable = errors.New("tag generation failed")

	// ErrInvalidReply covers a reachable oracle that answered garbage:
	// unparseable body, wrong shape, wrong cardinality, incomplete entries.
	ErrInvalidReply = errors.New("AI response validation failed")
)

// Tag is one entry of the oracle's reply. Both fields are mandatory.
type Tag struct {
	TagId   uint   `json:"tag_id"`
	TagName string `json:"tag_name"`
}

type tagReply struct {
	Tags []Tag `json:"tags"`
}

var promptTemplate = template.Must(template.New("tags").Parse(
	`You are tagging a reader's post about a book. Pick between {{.MinTags}} and {{.MaxTags}} tags
that best describe the post. You may ONLY pick from this vocabulary, and you
must copy both the id and the name exactly:
{{range .Vocabulary}}- id: {{.Id}}, name: {{.Name}}
{{end}}
Book title: {{.BookTitle}}
ISBN: {{.Isbn}}
Post content:
{{.Content}}

Reply with nothing but a JSON object of the form
{"tags": [{"tag_id": <id>, "tag_name": "<name>"}, ...]}`))

type promptInput struct {
	MinTags    int
	MaxTags    int
	Vocabulary []model.Tag
	BookTitle  string
	Isbn       string
	Content    string
}

// Client calls the generation endpoint. Construct once at startup and share;
// the underlying HTTP client is safe for concurrent use.
type Client struct {
	inner openai.Client
	model string
}

// NewClient reads ORACLE_BASE_URL, ORACLE_API_KEY and ORACLE_MODEL from the
// environment.
func NewClient() *Client {
	opts := []option.RequestOption{}
	if baseURL := os.Getenv("ORACLE_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey := os.Getenv("ORACLE_API_KEY"); apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return NewClientWithOptions(os.Getenv("ORACLE_MODEL"), opts...)
}

// NewClientWithOptions is the injectable constructor, used by tests to point
// the client at a fake endpoint. Retries are disabled here so every client
// makes exactly one attempt; the SDK would otherwise retry transient
// failures twice on its own.
func NewClientWithOptions(model string, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithMaxRetries(0)}, opts...)
	return &Client{
		inner: openai.NewClient(opts...),
		model: model,
	}
}

// GenerateTags sends one request carrying the full tag vocabulary, the book
// metadata and the post content, and returns the validated tag list. There
// is no retry: a failed attempt means the caller's transaction aborts.
func (c *Client) GenerateTags(ctx context.Context, vocabulary []model.Tag, bookTitle string, isbn string, content string) ([]Tag, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptInput{
		MinTags:    MinTags,
		MaxTags:    MaxTags,
		Vocabulary: vocabulary,
		BookTitle:  bookTitle,
		Isbn:       isbn,
		Content:    content,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	completion, err := c.inner.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buf.String()),
		},
		Model: c.model,
	})
	if err != nil {
		Logger.Log.Errorf("tag oracle call failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		Logger.Log.Error("tag oracle returned no choices")
		return nil, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	raw := completion.Choices[0].Message.Content
	tags, err := ParseTagReply(raw)
	if err != nil {
		// Keep the full raw reply around for diagnosis; it's the only
		// evidence of what the model actually said.
		Logger.Log.Errorf("tag oracle reply rejected: %v, raw reply: %s", err, raw)
		return nil, err
	}
	return tags, nil
}

// ParseTagReply validates the oracle's raw reply against the schema. All
// checks must pass; there is no best-effort acceptance of a partially valid
// list.
func ParseTagReply(raw string) ([]Tag, error) {
	var reply tagReply
	decoder := json.NewDecoder(strings.NewReader(raw))
	if err := decoder.Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidReply, err)
	}
	if reply.Tags == nil {
		return nil, fmt.Errorf("%w: missing tags field", ErrInvalidReply)
	}
	if len(reply.Tags) < MinTags || len(reply.Tags) > MaxTags {
		return nil, fmt.Errorf("%w: got %d tags, want %d-%d", ErrInvalidReply, len(reply.Tags), MinTags, MaxTags)
	}
	for _, tag := range reply.Tags {
		if tag.TagId == 0 || tag.TagName == "" {
			return nil, fmt.Errorf("%w: entry missing tag_id or tag_name", ErrInvalidReply)
		}
	}
	return reply.Tags, nil
}
