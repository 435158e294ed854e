package extract

import "regexp"

var (
	codePattern   = regexp.MustCompile(`(?i)Employee\s*Code[:\s]*([0-9]+)`)
	amountPattern = regexp.MustCompile(`(?i)NET\s*AMOUNT\s*PAYABLE[:\s]*([0-9,.]+)`)
)

// Matcher pulls the employee code and the net payable amount out of payslip
// text with label-anchored patterns. A missed label yields an empty string,
// not an error. The amount is carried as a display string and never parsed.
type Matcher struct{}

func NewMatcher() *Matcher { return &Matcher{} }

func (m *Matcher) Match(text string) (code, amount string) {
	if sub := codePattern.FindStringSubmatch(text); sub != nil {
		code = sub[1]
	}
	if sub := amountPattern.FindStringSubmatch(text); sub != nil {
		amount = sub[1]
	}
	return code, amount
}
