package wordset

const djb2Seed = 5381

// Sum returns the djb2 hash of word after folding ASCII letters to lower case.
// Arithmetic wraps at 64 bits.
func Sum(word string) uint64 {
	var h uint64 = djb2Seed
	for i := 0; i < len(word); i++ {
		h = (h << 5) + h + uint64(lower(word[i]))
	}
	return h
}

// isSpace reports whether c is one of the six ASCII whitespace bytes.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// scanWords is a bufio.SplitFunc like bufio.ScanWords, except only ASCII
// whitespace separates words. Other bytes, including UTF-8 encoded Unicode
// spaces, stay part of the word.
func scanWords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}
	for i := start; i < len(data); i++ {
		if isSpace(data[i]) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// equalFold compares a and b byte by byte, folding ASCII letters only.
// strings.EqualFold is not used because it also folds Unicode letters.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}
