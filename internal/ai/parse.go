package ai

import "encoding/json"

// Strict response schemas. Anything that does not decode into these shapes,
// or decodes with the content field missing, is ErrMalformedResponse rather
// than a best-effort blank value.

type chatCompletionResp struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type imageGenerationResp struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// ExtractChatContent locates the first generated choice's message content.
func ExtractChatContent(raw []byte) (string, error) {
	var decoded chatCompletionResp
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", ErrMalformedResponse
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", ErrMalformedResponse
	}
	return decoded.Choices[0].Message.Content, nil
}

// ExtractImageURL locates the first generated item's URL.
func ExtractImageURL(raw []byte) (string, error) {
	var decoded imageGenerationResp
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", ErrMalformedResponse
	}
	if len(decoded.Data) == 0 || decoded.Data[0].URL == "" {
		return "", ErrMalformedResponse
	}
	return decoded.Data[0].URL, nil
}
