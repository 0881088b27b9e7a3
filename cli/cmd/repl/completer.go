package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/minilang/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// isWordRune reports whether r may appear in an identifier.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor is not
// touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a string literal of input.
func inString(input string, offset int) bool {
	quoted, escaped := false, false

	for _, r := range input[:min(offset, len(input))] {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
		}
	}

	return quoted
}

// evalCandidates returns the names worth completing in eval mode: every
// binding visible in env followed by the keywords not shadowed by one.
func evalCandidates(env *lang.Env) []string {
	names := env.Names()

	for _, kw := range lang.Keywords() {
		if !slices.Contains(names, kw) {
			names = append(names, kw)
		}
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word, or one inside a string literal or starting with a
// digit, has no matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsDigit(r) || inString(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		candidates = evalCandidates(m.session.env)
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	isFunc func(string) bool,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, isFunc(match.Str), tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		// Reserve room for the ellipsis unless this is the last candidate.
		if i > 0 && (used+entryWidth > width ||
			(!last && used+entryWidth+sepWidth+ellipsisWidth > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix that is not part of
// the completion.
func renderCandidate(match fuzzy.Match, isFunc, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isFunc {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
