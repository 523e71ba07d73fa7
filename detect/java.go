// Package detect holds regex-based heuristics that guess what a pasted Java
// snippet is and which test libraries its project carries. Nothing here is a
// real parser; the results only steer the generation prompt.
package detect

import (
	"regexp"
	"strings"

	"instant_test/generator"
)

// UnknownClassName is returned when no class declaration is found.
const UnknownClassName = "UnknownClass"

var (
	classDeclPattern  = regexp.MustCompile(`(?:public\s+)?class\s+(\w+)`)
	methodDeclPattern = regexp.MustCompile(`(?:public|private|protected|static|\s)+[\w<>\[\]]+\s+(\w+)\s*\(([^)]*)\)`)
	annotationPattern = regexp.MustCompile(`@(\w+)(?:\(([^)]*)\))?`)

	controllerMarker = regexp.MustCompile(`@RestController|@Controller`)
	serviceMarker    = regexp.MustCompile(`@Service`)
	repositoryMarker = regexp.MustCompile(`@Repository|extends\s+(?:Jpa|Crud|Paging)Repository`)
	entityMarker     = regexp.MustCompile(`@Entity|@Table`)
	configMarker     = regexp.MustCompile(`@Configuration|@Bean`)
	componentMarker  = regexp.MustCompile(`@Component`)
)

// keywords that look like a call with a preceding type to the method pattern
var notMethods = map[string]bool{
	"class": true, "interface": true, "enum": true,
	"if": true, "while": true, "for": true, "switch": true, "catch": true,
}

// Unit is a method-like declaration found in the snippet.
type Unit struct {
	Name       string `json:"name"`
	Parameters string `json:"parameters"`
	Signature  string `json:"signature"`
}

// ClassName returns the first declared class name.
func ClassName(src string) string {
	if m := classDeclPattern.FindStringSubmatch(src); m != nil {
		return m[1]
	}
	return UnknownClassName
}

// Category guesses the archetype, annotations first, then class-name suffixes.
func Category(src string) generator.Category {
	if strings.TrimSpace(src) == "" {
		return generator.CategoryUnknown
	}
	switch {
	case controllerMarker.MatchString(src):
		return generator.CategoryController
	case serviceMarker.MatchString(src):
		return generator.CategoryService
	case repositoryMarker.MatchString(src):
		return generator.CategoryRepository
	case entityMarker.MatchString(src):
		return generator.CategoryEntity
	case configMarker.MatchString(src):
		return generator.CategoryConfig
	case componentMarker.MatchString(src):
		return generator.CategoryComponent
	}
	return categoryFromName(strings.ToLower(ClassName(src)))
}

func categoryFromName(name string) generator.Category {
	hasSuffix := func(suffixes ...string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(name, s) {
				return true
			}
		}
		return false
	}
	switch {
	case hasSuffix("controller"):
		return generator.CategoryController
	case hasSuffix("service", "serviceimpl"):
		return generator.CategoryService
	case hasSuffix("repository", "repo", "dao"):
		return generator.CategoryRepository
	case hasSuffix("entity", "model"):
		return generator.CategoryEntity
	case hasSuffix("dto", "request", "response"):
		return generator.CategoryDTO
	case hasSuffix("util", "utils", "helper"):
		return generator.CategoryUtility
	}
	return generator.CategoryUnknown
}

// Units lists method declarations in source order. Overloads appear once per
// declaration.
func Units(src string) []Unit {
	var units []Unit
	for _, m := range methodDeclPattern.FindAllStringSubmatch(src, -1) {
		name := m[1]
		if notMethods[name] {
			continue
		}
		params := strings.TrimSpace(m[2])
		units = append(units, Unit{
			Name:       name,
			Parameters: params,
			Signature:  name + "(" + params + ")",
		})
	}
	return units
}

// UnitNames returns the distinct unit names in first-occurrence order.
func UnitNames(src string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, u := range Units(src) {
		if seen[u.Name] {
			continue
		}
		seen[u.Name] = true
		names = append(names, u.Name)
	}
	return names
}

// Annotations returns the known annotations found in src, unique by name, in
// source order. Unknown annotations are skipped.
func Annotations(src string) []generator.Annotation {
	seen := make(map[string]bool)
	var out []generator.Annotation
	for _, m := range annotationPattern.FindAllStringSubmatch(src, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if info, ok := knownAnnotations[name]; ok {
			out = append(out, generator.Annotation{Name: name, Category: info.category, Hint: info.hint})
		}
	}
	return out
}
