package embedding

import (
	"hash/fnv"
	"strings"
)

// BERT special token IDs used by MiniLM-family models.
const (
	tokenCLS = 101
	tokenSEP = 102
)

// vocabSize bounds hashed token IDs to the BERT vocabulary range, leaving
// the low IDs free for special tokens.
const vocabSize = 30000

// Tokenizer converts text to the three padded input sequences a BERT-style
// model expects.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// WordHashTokenizer splits on whitespace and hashes each word into the
// vocabulary range. It is not a WordPiece tokenizer; vectors it produces are
// internally consistent but not comparable with vectors from a proper
// tokenizer. It serves as the fallback when no vocabulary file ships with
// the model.
type WordHashTokenizer struct{}

// Tokenize lowercases and splits text, mapping each word to a hashed token
// ID. Output slices are padded to maxTokens with [CLS] and [SEP] framing.
func (t *WordHashTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = tokenCLS
	attentionMask[0] = 1

	pos := 1
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if pos >= maxTokens-1 {
			break
		}
		inputIDs[pos] = hashToken(word)
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = tokenSEP
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// hashToken maps a word deterministically into the vocabulary range above
// the special tokens.
func hashToken(word string) int64 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return int64(h.Sum32()%vocabSize) + 1000
}
