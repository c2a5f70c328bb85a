package evidence

import "strings"

// chunkText groups sentences into chunks of at most maxWords words.
// Splitting is intentionally simple: terminal punctuation followed by a
// space ends a sentence.
func chunkText(text string, maxWords int) []string {
	replacer := strings.NewReplacer("! ", "!|", "? ", "?|", ". ", ".|")
	sentences := strings.Split(replacer.Replace(text), "|")

	var chunks []string
	var current []string
	currentWords := 0

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		words := len(strings.Fields(sentence))
		if currentWords+words > maxWords && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{sentence}
			currentWords = words
			continue
		}
		current = append(current, sentence)
		currentWords += words
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
