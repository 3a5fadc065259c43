package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Micronutrient is a catalog micronutrient value split at ingestion into
// quantity, unit and an optional annotation such as "(11% DV)".
// Suffix is the text after the number exactly as written; Unit and
// Annotation are trimmed views of it. Values without a leading number keep
// Raw and have Numeric=false.
type Micronutrient struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Suffix     string  `json:"suffix"`
	Unit       string  `json:"unit"`
	Annotation string  `json:"annotation,omitempty"`
	Numeric    bool    `json:"numeric"`
	Raw        string  `json:"raw,omitempty"`
}

// ParseMicronutrient splits value ("10mg (11% DV)") into its typed parts.
func ParseMicronutrient(name, value string) Micronutrient {
	m := Micronutrient{Name: name}

	loc := leadingNumber.FindStringIndex(value)
	if loc == nil {
		m.Raw = value
		return m
	}

	q, err := strconv.ParseFloat(strings.TrimSpace(value[:loc[1]]), 64)
	if err != nil {
		m.Raw = value
		return m
	}

	m.Numeric = true
	m.Quantity = q
	m.Suffix = value[loc[1]:]

	rest := strings.TrimSpace(m.Suffix)
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		m.Unit = rest[:i]
		m.Annotation = strings.TrimSpace(rest[i:])
	} else {
		m.Unit = rest
	}
	return m
}

// String renders the unscaled display value.
func (m Micronutrient) String() string {
	return m.Scaled(1)
}

// Scaled renders quantity*factor with one decimal followed by the original
// suffix unchanged. The %DV annotation is not rescaled.
func (m Micronutrient) Scaled(factor float64) string {
	if !m.Numeric {
		return m.Raw
	}
	return strconv.FormatFloat(round1(m.Quantity*factor), 'f', 1, 64) + m.Suffix
}
