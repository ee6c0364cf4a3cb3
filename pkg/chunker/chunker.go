// Package chunker splits long text into bounded chunks along paragraph and
// sentence boundaries, falling back to fixed-size slices when a sentence is
// still too long. Output is deterministic for a given (text, maxChunkSize).
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const paragraphDelimiter = "\n\n"

// sentenceDelimiters are tried in priority order; the first one that
// actually splits the paragraph wins.
var sentenceDelimiters = []string{". ", "! ", "? "}

// TextChunk is one bounded piece of a larger text.
type TextChunk struct {
	Content     string
	ContentHash string
	ChunkOrder  int
}

// HashContent returns the hex-encoded SHA-256 digest of the UTF-8 bytes of s.
// The same hash is the deduplication key at persistence time.
func HashContent(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ChunkByParagraphs splits text on double newlines and greedily packs
// paragraphs into chunks of at most maxChunkSize characters. Oversized
// paragraphs are split on sentence boundaries, and oversized sentences are
// hard-sliced, so the size bound holds for every emitted chunk.
func ChunkByParagraphs(text string, maxChunkSize int) []TextChunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var paragraphs []string
	for _, p := range strings.Split(text, paragraphDelimiter) {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	contents := packParagraphs(paragraphs, maxChunkSize)

	chunks := make([]TextChunk, len(contents))
	for i, content := range contents {
		chunks[i] = TextChunk{
			Content:     content,
			ContentHash: HashContent(content),
			ChunkOrder:  i,
		}
	}
	return chunks
}

func packParagraphs(paragraphs []string, maxChunkSize int) []string {
	var chunks []string
	var current string

	for _, paragraph := range paragraphs {
		switch {
		case runeLen(paragraph) > maxChunkSize:
			// Flush pending content before splitting the large paragraph
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = ""
			}
			chunks = append(chunks, splitLargeParagraph(paragraph, maxChunkSize)...)
		case current != "" && runeLen(current)+runeLen(paragraph)+len(paragraphDelimiter) > maxChunkSize:
			chunks = append(chunks, strings.TrimSpace(current))
			current = paragraph
		default:
			if current != "" {
				current += paragraphDelimiter + paragraph
			} else {
				current = paragraph
			}
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// splitIntoSentences splits on the first delimiter that yields more than one
// part, re-attaching the delimiter (minus trailing space) to each sentence.
func splitIntoSentences(paragraph string) []string {
	for _, delimiter := range sentenceDelimiters {
		parts := strings.Split(paragraph, delimiter)
		if len(parts) <= 1 {
			continue
		}
		var sentences []string
		for _, part := range parts[:len(parts)-1] {
			sentences = append(sentences, part+strings.TrimRight(delimiter, " "))
		}
		if last := parts[len(parts)-1]; last != "" {
			sentences = append(sentences, last)
		}
		return sentences
	}
	return nil
}

func splitLargeParagraph(paragraph string, maxChunkSize int) []string {
	sentences := splitIntoSentences(paragraph)
	if sentences == nil {
		// No sentence delimiters found, treat as a single sentence
		sentences = []string{paragraph}
	}

	const sentenceDelimiter = " "

	var chunks []string
	var current string

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		switch {
		case runeLen(sentence) > maxChunkSize:
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = ""
			}
			chunks = append(chunks, hardSlice(sentence, maxChunkSize)...)
		case current != "" && runeLen(current)+runeLen(sentence)+len(sentenceDelimiter) > maxChunkSize:
			chunks = append(chunks, strings.TrimSpace(current))
			current = sentence
		default:
			if current != "" {
				current += sentenceDelimiter + sentence
			} else {
				current = sentence
			}
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// hardSlice cuts s into fixed-size slices of exactly maxChunkSize characters
// (the last slice may be shorter).
func hardSlice(s string, maxChunkSize int) []string {
	runes := []rune(s)
	var chunks []string
	for i := 0; i < len(runes); i += maxChunkSize {
		end := i + maxChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}
