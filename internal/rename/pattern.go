package rename

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec describes the numbering placeholder recognized inside a title pattern.
// DigitCount is the number of 'n' characters and sets the minimum zero-padding
// width; StartOffset is the value added to the zero-based chapter index. It
// defaults to 1 so numbering starts at 1; an explicit '+X' overrides it,
// including '+0'.
type Spec struct {
	DigitCount  int
	StartOffset int

	start int // byte offset of '{' in the pattern
	end   int // byte offset just past '}'
}

// Parse scans pattern for the first well-formed numbering placeholder:
// '{', one or more 'n', an optional '+' followed by decimal digits, '}'.
// Malformed brace groups are skipped rather than rejected, so a pattern
// without any well-formed placeholder is simply used verbatim for every
// chapter. Parsing is pure; calling it twice yields the same result.
func Parse(pattern string) (Spec, bool) {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			continue
		}
		spec, ok := parseGroup(pattern, i)
		if ok {
			return spec, true
		}
	}
	return Spec{}, false
}

func parseGroup(pattern string, open int) (Spec, bool) {
	j := open + 1
	for j < len(pattern) && pattern[j] == 'n' {
		j++
	}
	digits := j - open - 1
	if digits == 0 {
		return Spec{}, false
	}

	offset := 1
	if j < len(pattern) && pattern[j] == '+' {
		k := j + 1
		for k < len(pattern) && pattern[k] >= '0' && pattern[k] <= '9' {
			k++
		}
		if k == j+1 {
			return Spec{}, false
		}
		parsed, err := strconv.Atoi(pattern[j+1 : k])
		if err != nil {
			// Offset too large to represent; treat the group as literal text.
			return Spec{}, false
		}
		offset = parsed
		j = k
	}

	if j >= len(pattern) || pattern[j] != '}' {
		return Spec{}, false
	}

	return Spec{DigitCount: digits, StartOffset: offset, start: open, end: j + 1}, true
}

// Render substitutes the placeholder in pattern with the number for the given
// zero-based chapter index. Patterns without a well-formed placeholder are
// returned unchanged.
func Render(pattern string, index int) string {
	spec, ok := Parse(pattern)
	if !ok {
		return pattern
	}
	return spec.render(pattern, index)
}

// RenderAll renders one title per chapter for indices 0..count-1, in order.
// A negative count is a caller contract violation.
func RenderAll(pattern string, count int) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("rename: chapter count must be non-negative, got %d", count)
	}
	titles := make([]string, 0, count)
	spec, ok := Parse(pattern)
	for i := 0; i < count; i++ {
		if ok {
			titles = append(titles, spec.render(pattern, i))
		} else {
			titles = append(titles, pattern)
		}
	}
	return titles, nil
}

func (s Spec) render(pattern string, index int) string {
	var b strings.Builder
	b.Grow(len(pattern) + s.DigitCount)
	b.WriteString(pattern[:s.start])
	b.WriteString(s.format(index))
	b.WriteString(pattern[s.end:])
	return b.String()
}

// format produces the padded decimal for StartOffset + index. Padding never
// truncates: wider values are emitted in full. Negative values keep the sign
// ahead of the zero padding, so "{nnn}" at value -5 renders "-005".
func (s Spec) format(index int) string {
	value := s.StartOffset + index
	negative := value < 0
	if negative {
		value = -value
	}
	digits := strconv.Itoa(value)
	if pad := s.DigitCount - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	if negative {
		return "-" + digits
	}
	return digits
}
