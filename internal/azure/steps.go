package azure

import (
	"fmt"
	"html"
	"strings"

	"github.com/teppoaland/sbsaa/pkg/types"
)

// StepsMarkup serializes ordered (action, expected result) pairs into the
// step markup the work item tracking service requires for the
// Microsoft.VSTS.TCM.Steps field. An empty step list yields an empty string
// so the field can be omitted from the creation payload.
//
// Step ids start at 2: id 1 is reserved for the enclosing steps element.
func StepsMarkup(steps []types.TestStep) string {
	if len(steps) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<steps id="0" last="%d">`, len(steps)+1)
	for i, step := range steps {
		expected := step.Expected
		if expected == "" {
			expected = "Verify step completed successfully"
		}
		fmt.Fprintf(&b, `<step id="%d" type="ValidateStep">`, i+2)
		b.WriteString(stepText(step.Action))
		b.WriteString(stepText(expected))
		b.WriteString("<description/></step>")
	}
	b.WriteString("</steps>")
	return b.String()
}

// stepText wraps one step string in the service's parameterized-string
// wrapper with the text HTML-escaped.
func stepText(text string) string {
	return fmt.Sprintf(`<parameterizedString isformatted="true"><DIV><P>%s</P></DIV></parameterizedString>`,
		html.EscapeString(text))
}
