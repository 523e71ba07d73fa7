package generator

import (
	"strings"
	"time"
)

// MaxSourceChars caps the snippet size accepted for generation.
const MaxSourceChars = 50000

// EdgeLevel is the priority given to an edge-case family.
type EdgeLevel string

const (
	EdgeOff    EdgeLevel = "off"
	EdgeLow    EdgeLevel = "low"
	EdgeMedium EdgeLevel = "medium"
	EdgeHigh   EdgeLevel = "high"
)

// rank orders levels for rendering; ok is false for off and unknown levels.
func (l EdgeLevel) rank() (int, bool) {
	switch l {
	case EdgeHigh:
		return 0, true
	case EdgeMedium:
		return 1, true
	case EdgeLow:
		return 2, true
	}
	return 0, false
}

// UnitLevel is the priority given to a single method of the snippet.
type UnitLevel string

const (
	UnitSkip      UnitLevel = "skip"
	UnitNormal    UnitLevel = "normal"
	UnitImportant UnitLevel = "important"
	UnitCritical  UnitLevel = "critical"
)

// Category is the archetype of the submitted class.
type Category string

const (
	CategoryController Category = "controller"
	CategoryService    Category = "service"
	CategoryRepository Category = "repository"
	CategoryEntity     Category = "entity"
	CategoryDTO        Category = "dto"
	CategoryUtility    Category = "utility"
	CategoryConfig     Category = "config"
	CategoryComponent  Category = "component"
	CategoryUnknown    Category = "unknown"
)

// ParseCategory maps free text onto a known category; anything else is unknown.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryStrategies[c]; ok {
		return c
	}
	return CategoryUnknown
}

// EdgeCasePriority is one entry of the edge-case map, kept in input order.
type EdgeCasePriority struct {
	ID    string    `json:"id"`
	Level EdgeLevel `json:"level"`
}

// UnitPriority is one entry of the per-method map, kept in input order.
type UnitPriority struct {
	Name  string    `json:"name"`
	Level UnitLevel `json:"level"`
}

// Annotation is a detected source annotation with its test focus hint.
type Annotation struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Hint     string `json:"hint"`
}

// DependencyEnv describes the testing libraries available to the target project.
type DependencyEnv struct {
	JavaVersion   string `json:"javaVersion,omitempty"`
	TestFramework string `json:"testFramework,omitempty"`
	MockingLib    string `json:"mockingLib,omitempty"`
	AssertionLib  string `json:"assertionLib,omitempty"`
	SpringBoot    bool   `json:"springBoot"`
	SpringWeb     bool   `json:"springWeb"`
	SpringJPA     bool   `json:"springJpa"`
	HasH2         bool   `json:"hasH2"`
	HasLombok     bool   `json:"hasLombok"`
}

// GenerationRequest is everything the composer needs for one instruction document.
type GenerationRequest struct {
	SourceText   string
	Notes        string
	EdgeCases    []EdgeCasePriority
	Units        []UnitPriority
	Category     Category
	Dependencies *DependencyEnv
	Annotations  []Annotation
}

// DefaultEdgeCases is used when the caller sends no usable edge-case map.
func DefaultEdgeCases() []EdgeCasePriority {
	return []EdgeCasePriority{
		{ID: "null", Level: EdgeHigh},
		{ID: "empty", Level: EdgeMedium},
		{ID: "boundary", Level: EdgeMedium},
		{ID: "exception", Level: EdgeHigh},
		{ID: "concurrent", Level: EdgeOff},
	}
}

// Result is a successful generation.
type Result struct {
	Text        string    `json:"generatedText"`
	Model       string    `json:"modelUsed"`
	GeneratedAt time.Time `json:"generatedAt"`
}
