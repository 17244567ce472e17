package testsupport

import (
	"context"
	"os"
	"sync"

	"stockmeta/internal/logging"
)

// GatewayCall captures one request made to a FakeGateway.
type GatewayCall struct {
	File      string
	Key       string
	Model     string
	ImagePath string
	ImageSize int64
}

// FakeGateway is an in-memory vision backend. Replies and errors are keyed by
// the media file name carried on the request context.
type FakeGateway struct {
	ProviderName string
	Replies      map[string]string
	Errors       map[string]error
	DefaultReply string

	mu    sync.Mutex
	calls []GatewayCall
}

// NewFakeGateway returns a gateway answering every file with reply.
func NewFakeGateway(reply string) *FakeGateway {
	return &FakeGateway{
		ProviderName: "fake",
		Replies:      map[string]string{},
		Errors:       map[string]error{},
		DefaultReply: reply,
	}
}

func (f *FakeGateway) Name() string {
	if f.ProviderName == "" {
		return "fake"
	}
	return f.ProviderName
}

func (f *FakeGateway) Generate(ctx context.Context, key, model, imagePath string) (string, error) {
	file, _ := logging.FileFromContext(ctx)
	call := GatewayCall{File: file, Key: key, Model: model, ImagePath: imagePath}
	if info, err := os.Stat(imagePath); err == nil {
		call.ImageSize = info.Size()
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if err := f.Errors[file]; err != nil {
		return "", err
	}
	if reply, ok := f.Replies[file]; ok {
		return reply, nil
	}
	return f.DefaultReply, nil
}

// Calls returns a copy of the recorded requests in call order.
func (f *FakeGateway) Calls() []GatewayCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]GatewayCall(nil), f.calls...)
}

// Reply formats a well-formed tagged model reply.
func Reply(title, description, keywords, category string) string {
	return "<TITLE>" + title + "</TITLE>\n" +
		"<DESCRIPTION>" + description + "</DESCRIPTION>\n" +
		"<KEYWORDS>" + keywords + "</KEYWORDS>\n" +
		"<CATEGORY_ID>" + category + "</CATEGORY_ID>"
}
