package provider

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"stockmeta/internal/config"
)

// OpenAI calls the Responses API with the image as a base64 data URL.
type OpenAI struct {
	settings Settings
}

// NewOpenAI builds an OpenAI gateway.
func NewOpenAI(settings Settings) *OpenAI {
	return &OpenAI{settings: settings}
}

// Name implements Gateway.
func (o *OpenAI) Name() string { return config.ProviderOpenAI }

// Generate implements Gateway. An empty reply in every known shape yields ""
// without an error.
func (o *OpenAI) Generate(ctx context.Context, key, model, imagePath string) (string, error) {
	data, err := readImage(imagePath)
	if err != nil {
		return "", callError(o.Name(), err)
	}
	if strings.TrimSpace(model) == "" {
		model = config.DefaultModel(config.ProviderOpenAI)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(o.settings.MaxRetries),
	}
	if o.settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(o.settings.BaseURL))
	}
	if o.settings.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(o.settings.Timeout))
	}
	client := openai.NewClient(opts...)

	content := responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: userText}},
		{OfInputImage: &responses.ResponseInputImageParam{
			ImageURL: openai.String("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)),
			Detail:   responses.ResponseInputImageDetailAuto,
		}},
	}
	params := responses.ResponseNewParams{
		Model:        model,
		Instructions: openai.String(Prompt()),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := client.Responses.New(ctx, params)
	if err != nil {
		return "", callError(o.Name(), err)
	}
	if text := firstNonEmpty(resp.OutputText()); text != "" {
		return text, nil
	}
	return ExtractText([]byte(resp.RawJSON())), nil
}
