package overlay

import (
	"regexp"
	"strings"
)

// StatusInfo is the parameter reference extracted from the editor's status
// text, e.g. "[E38] Parameter #12345 - Spark Advance".
type StatusInfo struct {
	DeviceType string
	ParamId    string
	Name       string
}

var (
	headerExpr      = regexp.MustCompile(`^\[([A-Za-z0-9]+)\]`)
	parameterIdExpr = regexp.MustCompile(`Parameter\s+#?(\d+)`)
	bareIdExpr      = regexp.MustCompile(`#?(\d+)`)
	nameExpr        = regexp.MustCompile(`Parameter\s+#?\d+\s*-\s*([^\r\n]+)`)
	primaryTypeExpr = regexp.MustCompile(`\b(E\d+)\b`)
	secondaryExpr   = regexp.MustCompile(`\b(T\d+)\b`)
)

// ParseStatus extracts a parameter reference from status text. Text not
// carrying a bracketed module header is not parameter text and reports false.
func ParseStatus(text string) (StatusInfo, bool) {
	text = strings.TrimSpace(text)

	header := headerExpr.FindStringSubmatch(text)
	if header == nil {
		return StatusInfo{}, false
	}

	body := strings.TrimSpace(text[len(header[0]):])

	id := ""
	if m := parameterIdExpr.FindStringSubmatch(body); m != nil {
		id = m[1]
	} else if m := bareIdExpr.FindStringSubmatch(body); m != nil {
		id = m[1]
	} else {
		return StatusInfo{}, false
	}

	name := "Parameter " + id
	if m := nameExpr.FindStringSubmatch(body); m != nil {
		name = strings.TrimSpace(m[1])
	}

	return StatusInfo{
		DeviceType: deviceTypeFromStatus(strings.ToUpper(header[1]), text),
		ParamId:    id,
		Name:       name,
	}, true
}

// deviceTypeFromStatus resolves generic ECM/TCM headers to the specific
// controller variant mentioned elsewhere in the text, when one is present.
func deviceTypeFromStatus(header string, text string) string {
	switch header {
	case "ECM", "PCM":
		if m := primaryTypeExpr.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	case "TCM":
		if m := secondaryExpr.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}

	return header
}
