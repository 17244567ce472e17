package provider

import (
	"bytes"
	"encoding/json"
	"strings"
)

// responseShape names one known layout of a text-generation reply.
type responseShape int

const (
	// shapeOutputText: {"output_text": "..."}
	shapeOutputText responseShape = iota
	// shapeOutputItems: {"output": [{"content": [{"type": "output_text", "text": "..."}]}]}
	shapeOutputItems
	// shapeContentBlocks: {"content": [{"text": "..."}]} or a bare [{"text": "..."}]
	shapeContentBlocks
	// shapeChatChoices: {"choices": [{"message": {"content": "..."}}]}
	shapeChatChoices
	// shapePlainText: {"text": "..."} or a bare JSON string
	shapePlainText
)

// shapeOrder is the fallback order: the most direct field first.
var shapeOrder = []responseShape{
	shapeOutputText,
	shapeOutputItems,
	shapeContentBlocks,
	shapeChatChoices,
	shapePlainText,
}

func (s responseShape) String() string {
	switch s {
	case shapeOutputText:
		return "output_text"
	case shapeOutputItems:
		return "output_items"
	case shapeContentBlocks:
		return "content_blocks"
	case shapeChatChoices:
		return "chat_choices"
	case shapePlainText:
		return "plain_text"
	default:
		return "unknown"
	}
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// blockContent decodes either a string or a list of content blocks.
type blockContent struct {
	Text   string
	Blocks []contentBlock
}

func (c *blockContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		return json.Unmarshal(data, &c.Text)
	case data[0] == '[':
		return json.Unmarshal(data, &c.Blocks)
	default:
		var single contentBlock
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		c.Blocks = []contentBlock{single}
		return nil
	}
}

func (c blockContent) text() string {
	if text := strings.TrimSpace(c.Text); text != "" {
		return text
	}
	return joinBlocks(c.Blocks)
}

type envelope struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string       `json:"type"`
		Content blockContent `json:"content"`
		Text    string       `json:"text"`
	} `json:"output"`
	Content blockContent `json:"content"`
	Choices []struct {
		Message struct {
			Content blockContent `json:"content"`
		} `json:"message"`
		Delta struct {
			Content blockContent `json:"content"`
		} `json:"delta"`
		Text string `json:"text"`
	} `json:"choices"`
	Text string `json:"text"`

	bareText   string
	bareBlocks []contentBlock
}

func decodeEnvelope(raw []byte) (envelope, bool) {
	var env envelope
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return env, false
	}
	switch raw[0] {
	case '"':
		return env, json.Unmarshal(raw, &env.bareText) == nil
	case '[':
		return env, json.Unmarshal(raw, &env.bareBlocks) == nil
	case '{':
		return env, json.Unmarshal(raw, &env) == nil
	default:
		return env, false
	}
}

func (e envelope) extract(shape responseShape) string {
	switch shape {
	case shapeOutputText:
		return strings.TrimSpace(e.OutputText)
	case shapeOutputItems:
		var parts []string
		for _, item := range e.Output {
			if text := firstNonEmpty(item.Content.text(), item.Text); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	case shapeContentBlocks:
		return firstNonEmpty(e.Content.text(), joinBlocks(e.bareBlocks))
	case shapeChatChoices:
		for _, choice := range e.Choices {
			if text := firstNonEmpty(choice.Message.Content.text(), choice.Delta.Content.text(), choice.Text); text != "" {
				return text
			}
		}
		return ""
	case shapePlainText:
		return firstNonEmpty(e.Text, e.bareText)
	default:
		return ""
	}
}

// ExtractText returns the first non-empty text found in raw, trying each
// known reply shape in order. Unknown or empty replies yield "".
func ExtractText(raw []byte) string {
	env, ok := decodeEnvelope(raw)
	if !ok {
		return ""
	}
	for _, shape := range shapeOrder {
		if text := env.extract(shape); text != "" {
			return text
		}
	}
	return ""
}

func joinBlocks(blocks []contentBlock) string {
	var parts []string
	for _, block := range blocks {
		switch block.Type {
		case "", "text", "output_text", "input_text":
			if text := strings.TrimSpace(block.Text); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
