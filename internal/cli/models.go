package cli

import (
	"fmt"

	"github.com/typesub/typesub/internal/translate"
)

var validGeminiModels = map[string]bool{
	"gemini-3-pro-preview":   true,
	"gemini-3-flash-preview": true,
	"gemini-2.5-pro":         true,
	"gemini-2.5-flash":       true,
	"gemini-2.5-flash-lite":  true,
}

var validOpenAIModels = map[string]bool{
	"o1":          true,
	"o3-mini":     true,
	"o1-pro":      true,
	"o3":          true,
	"gpt-5":       true,
	"gpt-5-nano":  true,
	"gpt-5-mini":  true,
	"gpt-5-pro":   true,
	"gpt-5.1":     true,
	"gpt-5.2":     true,
	"gpt-5.2-pro": true,
}

var validAnthropicModels = map[string]bool{
	"claude-haiku-4-5":  true,
	"claude-sonnet-4-5": true,
	"claude-opus-4-5":   true,
}

func isValidGeminiModel(model string) bool {
	return validGeminiModels[model]
}

func isValidOpenAIModel(model string) bool {
	return validOpenAIModels[model]
}

func isValidAnthropicModel(model string) bool {
	return validAnthropicModels[model]
}

func validateModel(provider translate.Provider, model string) error {
	switch provider {
	case translate.ProviderGemini:
		if !isValidGeminiModel(model) {
			return fmt.Errorf(
				"unsupported Gemini model %q: valid models are gemini-3-pro-preview, gemini-3-flash-preview, gemini-2.5-pro, gemini-2.5-flash, gemini-2.5-flash-lite (use --model-override to bypass)",
				model,
			)
		}
	case translate.ProviderOpenAI:
		if !isValidOpenAIModel(model) {
			return fmt.Errorf(
				"unsupported OpenAI model %q: valid models are o1, o3-mini, o1-pro, o3, gpt-5, gpt-5-nano, gpt-5-mini, gpt-5-pro, gpt-5.1, gpt-5.2, gpt-5.2-pro (use --model-override to bypass)",
				model,
			)
		}
	case translate.ProviderAnthropic:
		if !isValidAnthropicModel(model) {
			return fmt.Errorf(
				"unsupported Anthropic model %q: valid models are claude-haiku-4-5, claude-sonnet-4-5, claude-opus-4-5 (use --model-override to bypass)",
				model,
			)
		}
	}
	return nil
}
