package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/allychat/rag-agent/internal/retrieval"
)

const preamble = `You are a helpful assistant answering questions about the ROG Xbox Ally handheld device.
Use the following information to answer the user's question. If you don't know the answer based on the provided information, say so.`

const noContextNotice = `No grounding context was found for this question. Answer from general knowledge and clearly state that the answer is not based on the knowledge base.`

// Assembler builds the generation prompt from the question and the ranked
// retrieval results. Assembly is deterministic: the same inputs always
// produce byte-identical prompt text.
type Assembler struct {
	charBudget int
}

// NewAssembler creates an assembler whose combined chunk text never exceeds
// charBudget characters.
func NewAssembler(charBudget int) *Assembler {
	return &Assembler{
		charBudget: charBudget,
	}
}

func (a *Assembler) Assemble(question string, results []retrieval.Result) string {
	var b strings.Builder

	b.WriteString(preamble)
	b.WriteString("\n\n")

	if len(results) == 0 {
		b.WriteString(noContextNotice)
		b.WriteString("\n")
	} else {
		b.WriteString("Context:\n")
		for i, result := range a.fitBudget(results) {
			b.WriteString(fmt.Sprintf("Source %d (relevance: %.2f): %s\n\n", i+1, result.Score, result.Text))
		}
	}

	b.WriteString("\nUser Question: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")

	return b.String()
}

// fitBudget drops chunks from the lowest-similarity end until the combined
// chunk text fits the budget. The highest-similarity chunk is never dropped;
// if it alone exceeds the budget it is cut at a sentence boundary.
func (a *Assembler) fitBudget(results []retrieval.Result) []retrieval.Result {
	if a.charBudget <= 0 {
		return results
	}

	kept := results
	for len(kept) > 1 && totalChars(kept) > a.charBudget {
		kept = kept[:len(kept)-1]
	}

	if len(kept) == 1 && len(kept[0].Text) > a.charBudget {
		truncated := kept[0]
		truncated.Text = truncateAtSentence(truncated.Text, a.charBudget)
		return []retrieval.Result{truncated}
	}

	return kept
}

func totalChars(results []retrieval.Result) int {
	total := 0
	for _, result := range results {
		total += len(result.Text)
	}
	return total
}

// truncateAtSentence cuts text to at most budget characters, preferring the
// last sentence boundary inside the budget. Falls back to a hard cut when
// the text has no boundary.
func truncateAtSentence(text string, budget int) string {
	if len(text) <= budget {
		return text
	}

	// Back up to a rune boundary so the cut never splits a multi-byte rune.
	for budget > 0 && !utf8.RuneStart(text[budget]) {
		budget--
	}

	cut := text[:budget]
	boundary := -1
	for _, mark := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(cut, mark); idx > boundary {
			boundary = idx
		}
	}

	if boundary > 0 {
		return cut[:boundary+1]
	}

	return cut
}
