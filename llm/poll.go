package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Poll is a generated two-option question for a chat.
type Poll struct {
	Question string   `json:"question" jsonschema:"description=The poll question,maxLength=255"`
	Options  []string `json:"options" jsonschema:"description=Exactly two answer options,minItems=2,maxItems=2"`
}

const pollPrompt = "You write short, playful chat polls. " +
	"Produce one question with exactly two mutually exclusive options. " +
	"Keep the question under 200 characters and each option under 90."

var pollSchema = func() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	return reflector.Reflect(&Poll{})
}()

// GeneratePoll asks the model for a two-option poll on the given topic.
func (c *Client) GeneratePoll(ctx context.Context, topic string) (*Poll, error) {
	prompt := "Write a poll for the chat."
	if topic != "" {
		prompt = fmt.Sprintf("Write a poll about: %s", topic)
	}

	result, err := c.Complete(ctx, Request{
		Messages:   []Message{system(pollPrompt), user(prompt)},
		Schema:     pollSchema,
		SchemaName: "poll",
	})
	if err != nil {
		return nil, err
	}

	var poll Poll
	if err = json.Unmarshal([]byte(result.Text), &poll); err != nil {
		return nil, fmt.Errorf("malformed poll from model: %w", err)
	}

	if poll.Question == "" || len(poll.Options) != 2 {
		return nil, fmt.Errorf("model returned an unusable poll")
	}

	return &poll, nil
}
