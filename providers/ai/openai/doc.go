// Package openai implements the nodeflow client interfaces on top of the
// OpenAI chat completions API. The same provider works against any
// OpenAI-compatible server (Azure OpenAI, OpenRouter, Ollama, vLLM) by
// overriding the base URL.
//
// The main entry point is [New], which reads OPENAI_API_KEY, OPENAI_BASE_URL
// and OPENAI_MODEL from the environment. Use [Provider.WithAPIKey],
// [Provider.WithBaseURL], [Provider.WithModel] and [Provider.WithHTTPClient]
// to override these values programmatically.
//
// The provider satisfies both [ai.Client] and [ai.VisionClient]: image files
// handed to [Provider.SendVisionMessage] are inlined as base64 data URLs.
package openai
