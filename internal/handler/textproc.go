package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// TextResult is the body of a successful text processing call.
type TextResult struct {
	OriginalText   string `json:"original_text"`
	CharacterCount int    `json:"character_count"`
	WordCount      int    `json:"word_count"`
	Uppercase      string `json:"uppercase"`
	Lowercase      string `json:"lowercase"`
	Reversed       string `json:"reversed"`
	Message        string `json:"message"`
}

// AnalyzeText counts runes and whitespace separated words.
func AnalyzeText(text string) TextResult {
	return TextResult{
		OriginalText:   text,
		CharacterCount: utf8.RuneCountInString(text),
		WordCount:      len(strings.Fields(text)),
		Uppercase:      strings.ToUpper(text),
		Lowercase:      strings.ToLower(text),
		Reversed:       reverseRunes(text),
		Message:        "Text processed successfully!",
	}
}

func reverseRunes(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// ProcessText reads text from ?text= on GET or from {"text": ...} on POST.
// A body that is not JSON is treated as if no text was sent.
func ProcessText(c echo.Context) error {
	if c.Request().Method == http.MethodOptions {
		return c.NoContent(http.StatusNoContent)
	}

	var text string
	if c.Request().Method == http.MethodGet {
		text = c.QueryParam("text")
	} else {
		var body map[string]any
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err == nil {
			text, _ = body["text"].(string)
		}
	}

	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No text provided"})
	}
	return c.JSON(http.StatusOK, AnalyzeText(text))
}

func TextHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy", "service": "text-processing-function"})
}
