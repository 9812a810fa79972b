package services

import (
	"regexp"
	"strings"

	"vinted-scraper/models"
)

// Labels are the anchor tokens a marketplace uses inside its listing
// info strings, plus the title shown when none can be recovered.
type Labels struct {
	Brand        string
	Size         string
	Condition    string
	UnknownTitle string
}

var (
	// LabelsFR matches vinted.fr, e.g. "Jupe Zara, marque: Zara, état: Très bon état, taille: S / 36 / 8".
	LabelsFR = Labels{Brand: "marque:", Size: "taille:", Condition: "état:", UnknownTitle: "Titre Inconnu"}
	// LabelsEN matches English storefronts.
	LabelsEN = Labels{Brand: "brand:", Size: "size:", Condition: "condition:", UnknownTitle: "Unknown Title"}
)

// LabelsFor returns the label set for a locale code, defaulting to French.
func LabelsFor(locale string) Labels {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en":
		return LabelsEN
	default:
		return LabelsFR
	}
}

// Segmenter splits an info string into title, brand, size and condition.
type Segmenter struct {
	brand     *regexp.Regexp
	size      *regexp.Regexp
	condition *regexp.Regexp
	cuts      []string
}

// NewSegmenter compiles the label searches for the given label set.
func NewSegmenter(labels Labels) *Segmenter {
	return &Segmenter{
		brand:     labelRegexp(labels.Brand),
		size:      labelRegexp(labels.Size),
		condition: labelRegexp(labels.Condition),
		cuts:      []string{labels.Brand, labels.Size, labels.Condition, ","},
	}
}

// labelRegexp matches "<label> value" up to the next comma or the end.
func labelRegexp(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*(.*?)(?:,|$)`)
}

// Segment parses text. Each label is searched against the whole string, so
// field order in the text does not matter and missing labels stay empty.
func (s *Segmenter) Segment(text string) models.ParsedDetails {
	var d models.ParsedDetails
	if text == "" {
		return d
	}

	d.Brand = captureLabel(s.brand, text)
	d.Size = captureLabel(s.size, text)
	d.Condition = captureLabel(s.condition, text)
	d.Title = s.title(text)
	return d
}

// title keeps everything before the earliest label token or comma. The cut
// points are plain substrings, so a comma inside a real title also cuts it.
func (s *Segmenter) title(text string) string {
	for _, cut := range s.cuts {
		if cut == "" {
			continue
		}
		text, _, _ = strings.Cut(text, cut)
	}
	return strings.TrimSpace(text)
}

func captureLabel(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
