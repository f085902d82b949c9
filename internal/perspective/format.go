package perspective

import (
	"fmt"
	"strings"
)

// FormatOne renders a single perspective for human review.
func FormatOne(num string, p Perspective) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  Perspective %s:\n", num)
	if p.Stance != "" {
		fmt.Fprintf(&b, "    Position: %s\n", p.Stance)
	}
	if len(p.Criteria) > 0 {
		fmt.Fprintf(&b, "    Key Criteria: %s\n", strings.Join(p.Criteria, ", "))
	}
	fmt.Fprintf(&b, "    Reasoning: %s\n", p.Reason)
	return b.String()
}

// FormatSet renders every perspective in numeric order plus a total line.
func FormatSet(set Set) string {
	var b strings.Builder
	for _, k := range Keys(set) {
		b.WriteString(FormatOne(k, set[k]))
	}
	fmt.Fprintf(&b, "\n  Total perspectives: %d\n", len(set))
	return b.String()
}
