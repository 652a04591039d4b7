package analyzers

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// The detector loads language models on first use, which is expensive.
// Built once per process, and only when a page actually has enough text.
var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

const minDetectableWords = 20

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.Spanish, lingua.French, lingua.German,
				lingua.Portuguese, lingua.Italian, lingua.Dutch,
				lingua.Russian, lingua.Japanese, lingua.Chinese,
			).
			WithLowAccuracyMode().
			Build()
	})
	return detector
}

// detectLanguage guesses the dominant language of the page text. Returns
// the empty string when the text is too short for a confident guess.
func detectLanguage(text string) string {
	if len(strings.Fields(text)) < minDetectableWords {
		return ""
	}
	lang, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return lang.String()
}
