package casefile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/specialistvlad/statscheck/internal/compiler"
)

// Expectation is the declarative part of a case's check. Nil and empty
// fields are not checked.
type Expectation struct {
	Errors          *int
	Warnings        *int
	Assets          []string
	ErrorContains   []string
	WarningContains []string
}

// ExpectationError lists every unmet expectation of a case.
type ExpectationError struct {
	Case     string
	Problems []string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("case %q: %s", e.Case, strings.Join(e.Problems, "; "))
}

// Verify checks report against the expectation.
func (e Expectation) Verify(name string, report *compiler.StatsCompilation) error {
	var problems []string

	if e.Errors != nil && len(report.Errors) != *e.Errors {
		problems = append(problems, fmt.Sprintf("expected %d errors, got %d%s", *e.Errors, len(report.Errors), messages(report.Errors)))
	}
	if e.Warnings != nil && len(report.Warnings) != *e.Warnings {
		problems = append(problems, fmt.Sprintf("expected %d warnings, got %d%s", *e.Warnings, len(report.Warnings), messages(report.Warnings)))
	}
	if e.Assets != nil {
		want := slices.Sorted(slices.Values(e.Assets))
		got := make([]string, 0, len(report.Assets))
		for _, a := range report.Assets {
			got = append(got, a.Name)
		}
		slices.Sort(got)
		if diff := cmp.Diff(want, got); diff != "" {
			problems = append(problems, fmt.Sprintf("assets mismatch (-want +got):\n%s", diff))
		}
	}
	for _, sub := range e.ErrorContains {
		if !anyContains(report.Errors, sub) {
			problems = append(problems, fmt.Sprintf("no error contains %q", sub))
		}
	}
	for _, sub := range e.WarningContains {
		if !anyContains(report.Warnings, sub) {
			problems = append(problems, fmt.Sprintf("no warning contains %q", sub))
		}
	}

	if len(problems) > 0 {
		return &ExpectationError{Case: name, Problems: problems}
	}
	return nil
}

func anyContains(errs []compiler.StatsError, sub string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, sub) {
			return true
		}
	}
	return false
}

func messages(errs []compiler.StatsError) string {
	if len(errs) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return ": " + strings.Join(msgs, " | ")
}
