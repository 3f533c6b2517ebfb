package metatag

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"aria/internal/music"
	"aria/internal/services"
)

// YearPolicy bounds acceptable recording years.
type YearPolicy struct {
	Minimum int
	Maximum int
	// UseCurrentYearAsMaximum caps the range at the current calendar year and
	// permits falling back to it when no year can be recovered at all.
	UseCurrentYearAsMaximum bool
}

// MaximumYear resolves the effective upper bound.
func (p YearPolicy) MaximumYear() int {
	if p.UseCurrentYearAsMaximum {
		return time.Now().Year()
	}
	return p.Maximum
}

// Valid reports whether year lies inside the policy range.
func (p YearPolicy) Valid(year int) bool {
	return year >= p.Minimum && year <= p.MaximumYear()
}

var yearToken = regexp.MustCompile(`(1[89]\d{2}|20\d{2})`)

// YearProcessor normalizes the recording year tag. An unparseable or
// out-of-range value is recovered from the file or directory name when
// possible, then from the current calendar year when the policy permits.
type YearProcessor struct {
	policy YearPolicy
}

// NewYearProcessor builds a year processor with the given policy.
func NewYearProcessor(policy YearPolicy) *YearProcessor {
	return &YearProcessor{policy: policy}
}

func (p *YearProcessor) Name() string { return "year" }

func (p *YearProcessor) Handles(id music.TagID) bool {
	return id == music.TagRecordingYear
}

func (p *YearProcessor) Process(directory, fileName string, tag music.Tag, _ []music.Tag) ([]music.Tag, services.Result) {
	year := parseYear(tag.Value)

	if !p.policy.Valid(year) {
		if recovered := p.recoverYear(fileName); recovered != 0 {
			year = recovered
		} else if recovered := p.recoverYear(directory); recovered != 0 {
			year = recovered
		}
	}
	if !p.policy.Valid(year) && p.policy.UseCurrentYearAsMaximum {
		year = time.Now().Year()
	}

	out := []music.Tag{{ID: music.TagRecordingYear, Value: strconv.Itoa(year)}}
	if !p.policy.Valid(year) {
		err := services.Wrap(services.ErrValidation, "metatag", "year",
			fmt.Sprintf("year %d outside %d..%d", year, p.policy.Minimum, p.policy.MaximumYear()), nil)
		return out, services.Failed(err)
	}
	return out, services.Ok()
}

// recoverYear returns the first in-range year token found in name, or 0.
func (p *YearProcessor) recoverYear(name string) int {
	for _, match := range yearToken.FindAllString(name, -1) {
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if p.policy.Valid(year) {
			return year
		}
	}
	return 0
}

// parseYear extracts a year from an integer, a date string, or a value with a
// leading date component. Returns 0 when nothing parses.
func parseYear(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if year, err := strconv.Atoi(value); err == nil {
		return year
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", "2006/01/02", "01/02/2006"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Year()
		}
	}
	if len(value) >= 4 {
		if year, err := strconv.Atoi(value[:4]); err == nil {
			return year
		}
	}
	return 0
}
