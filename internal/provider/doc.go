// Package provider sends a preprocessed image to a vision model and returns
// the raw text reply.
//
// Two backends implement Gateway: Gemini through google.golang.org/genai and
// OpenAI through the Responses API of github.com/openai/openai-go. Both send
// the same fixed instruction prompt. The credential is supplied per call so
// the caller can rotate keys between requests. Every backend failure is
// returned as a *CallError so the pipeline can skip the file and continue.
package provider
