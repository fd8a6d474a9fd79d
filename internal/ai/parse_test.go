package ai

import (
	"errors"
	"testing"
)

func TestExtractChatContent(t *testing.T) {
	content, err := ExtractChatContent([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if content != "hello" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestExtractChatContent_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `{{{`,
		"no choices":     `{"choices":[]}`,
		"missing field":  `{"choices":[{"message":{"role":"assistant"}}]}`,
		"wrong shape":    `{"result":"hello"}`,
		"choices scalar": `{"choices":"hello"}`,
	}
	for name, body := range cases {
		if _, err := ExtractChatContent([]byte(body)); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}

func TestExtractImageURL(t *testing.T) {
	url, err := ExtractImageURL([]byte(`{"data":[{"url":"https://img.example/1.png"},{"url":"https://img.example/2.png"}]}`))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if url != "https://img.example/1.png" {
		t.Fatalf("expected first item's url, got %q", url)
	}
}

func TestExtractImageURL_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":   `]`,
		"no data":    `{"data":[]}`,
		"empty url":  `{"data":[{"url":""}]}`,
		"wrong keys": `{"images":[{"link":"x"}]}`,
	}
	for name, body := range cases {
		if _, err := ExtractImageURL([]byte(body)); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}
