// Package dataset defines the outcome-data taxonomy and the study records
// analysis methods consume. The taxonomy is fixed at framework
// initialization; the registry and dispatcher treat category names as
// opaque keys into it.
package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Category names a class of analysis input data.
type Category int

// The fixed data-type taxonomy.
const (
	Binary Category = iota
	Continuous
	Diagnostic
)

var strToCategory = map[string]Category{
	"binary":     Binary,
	"continuous": Continuous,
	"diagnostic": Diagnostic,
}

var categoryToStr = map[Category]string{
	Binary:     "binary",
	Continuous: "continuous",
	Diagnostic: "diagnostic",
}

// ParseCategory maps a category name to its Category, failing with the
// list of valid names when unknown.
func ParseCategory(s string) (Category, error) {
	if c, ok := strToCategory[s]; ok {
		return c, nil
	}
	valid := make([]string, 0, len(strToCategory))
	for name := range strToCategory {
		valid = append(valid, name)
	}
	sort.Strings(valid)
	return 0, fmt.Errorf("unknown data category %q (valid: %s)", s, strings.Join(valid, ", "))
}

// String returns the category's name.
func (c Category) String() string {
	if s, ok := categoryToStr[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// BinaryStudy is one study's 2x2 outcome table: event counts and group
// sizes for the treated and control arms.
type BinaryStudy struct {
	Name          string
	EventsTreated int
	TotalTreated  int
	EventsControl int
	TotalControl  int
}

// ContinuousStudy is one study's continuous outcome summary: sample size,
// mean, and standard deviation per arm.
type ContinuousStudy struct {
	Name        string
	NTreated    int
	MeanTreated float64
	SDTreated   float64
	NControl    int
	MeanControl float64
	SDControl   float64
}

// Dataset holds the studies an analysis runs over. Methods select the
// slice matching their category and ignore the rest.
type Dataset struct {
	Title   string
	Summary string

	Binary     []BinaryStudy
	Continuous []ContinuousStudy
}
