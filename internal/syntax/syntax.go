package syntax

import "unicode"

// Class identifies the lexical category assigned to a single character.
type Class uint8

const (
	None Class = iota
	Number
	Match
	String
	Character
	Comment
	MultilineComment
	PrimaryKeyword
	SecondaryKeyword
)

// lexState is the explicit scanner state. Only stateBlockComment survives
// across rows; everything else is closed at end of row.
type lexState int

const (
	statePlain lexState = iota
	stateString
	stateChar
	stateLineComment
	stateBlockComment
)

// Run classifies one row of text against a profile. inComment reports whether
// the row begins inside a block comment opened on an earlier row; the second
// return value reports whether a block comment is still open when the row
// ends. Run has no side effects and is idempotent: identical input yields an
// identical classification slice.
func Run(p Profile, chars []rune, inComment bool) ([]Class, bool) {
	classes := make([]Class, len(chars))

	state := statePlain
	if inComment && p.HasBlockComments() {
		state = stateBlockComment
	}
	prevSep := true

	i := 0
	for i < len(chars) {
		c := chars[i]

		switch state {
		case stateBlockComment:
			if matchAt(chars, i, p.BlockCommentEnd) {
				for j := 0; j < len(p.BlockCommentEnd); j++ {
					classes[i+j] = MultilineComment
				}
				i += len(p.BlockCommentEnd)
				state = statePlain
				prevSep = true
				continue
			}
			classes[i] = MultilineComment
			i++
			continue

		case stateString:
			classes[i] = String
			if c == '\\' && i+1 < len(chars) {
				classes[i+1] = String
				i += 2
				continue
			}
			if c == '"' {
				state = statePlain
				prevSep = true
			}
			i++
			continue

		case stateChar:
			classes[i] = Character
			if c == '\\' && i+1 < len(chars) {
				classes[i+1] = Character
				i += 2
				continue
			}
			if c == '\'' {
				state = statePlain
				prevSep = true
			}
			i++
			continue

		case stateLineComment:
			classes[i] = Comment
			i++
			continue
		}

		if p.LineComment != "" && matchAt(chars, i, p.LineComment) {
			state = stateLineComment
			continue
		}
		if p.HasBlockComments() && matchAt(chars, i, p.BlockCommentStart) {
			for j := 0; j < len(p.BlockCommentStart); j++ {
				classes[i+j] = MultilineComment
			}
			i += len(p.BlockCommentStart)
			state = stateBlockComment
			continue
		}
		if p.Strings && c == '"' {
			classes[i] = String
			state = stateString
			i++
			continue
		}
		if p.Characters && c == '\'' {
			classes[i] = Character
			state = stateChar
			i++
			continue
		}

		if p.Numbers {
			if (unicode.IsDigit(c) && (prevSep || (i > 0 && classes[i-1] == Number))) ||
				(c == '.' && i > 0 && classes[i-1] == Number) {
				classes[i] = Number
				prevSep = false
				i++
				continue
			}
		}

		if prevSep {
			if n, cls := matchKeyword(p, chars, i); n > 0 {
				for j := 0; j < n; j++ {
					classes[i+j] = cls
				}
				i += n
				prevSep = false
				continue
			}
		}

		prevSep = isSeparator(c)
		i++
	}

	return classes, state == stateBlockComment
}

// matchKeyword reports the length and class of a keyword starting at i, or
// zero. Primary keywords win over secondary ones; a match must end on a word
// boundary (the caller has already guaranteed the boundary before i).
func matchKeyword(p Profile, chars []rune, i int) (int, Class) {
	if n := matchWord(chars, i, p.PrimaryKeywords); n > 0 {
		return n, PrimaryKeyword
	}
	if n := matchWord(chars, i, p.SecondaryKeywords); n > 0 {
		return n, SecondaryKeyword
	}
	return 0, None
}

func matchWord(chars []rune, i int, words []string) int {
	for _, w := range words {
		if !matchAt(chars, i, w) {
			continue
		}
		end := i + len([]rune(w))
		if end == len(chars) || isSeparator(chars[end]) {
			return end - i
		}
	}
	return 0
}

// matchAt reports whether s occurs in chars starting at index i.
func matchAt(chars []rune, i int, s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if i >= len(chars) || chars[i] != r {
			return false
		}
		i++
	}
	return true
}

func isSeparator(c rune) bool {
	if unicode.IsSpace(c) {
		return true
	}
	switch c {
	case ',', '.', ';', ':', '(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '=', '~', '%', '<', '>', '&', '|', '^', '!', '?', '#', '@':
		return true
	}
	return false
}
