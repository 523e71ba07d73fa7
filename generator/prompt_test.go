package generator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `package com.acme.orders;

@Service
public class OrderService {
    public Order findById(Long id) { return repo.findById(id).orElseThrow(); }
    public Order save(Order o) { return repo.save(o); }
}`

func fullRequest() GenerationRequest {
	return GenerationRequest{
		SourceText: sampleSource,
		Notes:      "@findById throws when missing @save rejects null totals",
		EdgeCases:  DefaultEdgeCases(),
		Units: []UnitPriority{
			{Name: "findById", Level: UnitCritical},
			{Name: "save", Level: UnitImportant},
			{Name: "toString", Level: UnitSkip},
		},
		Category: CategoryService,
		Dependencies: &DependencyEnv{
			JavaVersion:   "17",
			TestFramework: "junit5",
			MockingLib:    "mockito",
			AssertionLib:  "assertj",
			SpringBoot:    true,
			SpringJPA:     true,
		},
		Annotations: []Annotation{
			{Name: "Service", Category: "spring-core", Hint: "Unit test with mocked dependencies"},
			{Name: "Transactional", Category: "transaction", Hint: "Test rollback on exception"},
			{Name: "Autowired", Category: "spring-core", Hint: "Use @Mock and @InjectMocks"},
		},
	}
}

func edgeLines(doc string) []string {
	var out []string
	_, rest, ok := strings.Cut(doc, "EDGE CASES TO TEST (sorted by priority):\n")
	if !ok {
		return nil
	}
	for _, line := range strings.Split(rest, "\n") {
		if !strings.HasPrefix(line, "- ") {
			break
		}
		out = append(out, line)
	}
	return out
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := fullRequest()
	first := BuildPrompt(req)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, BuildPrompt(fullRequest())); diff != "" {
			t.Fatalf("document changed between runs (-first +again):\n%s", diff)
		}
	}
}

func TestBuildPrompt_EdgeCaseOrdering(t *testing.T) {
	req := GenerationRequest{
		SourceText: "class A {}",
		EdgeCases: []EdgeCasePriority{
			{ID: "exception", Level: EdgeHigh},
			{ID: "null", Level: EdgeHigh},
			{ID: "boundary", Level: EdgeMedium},
			{ID: "empty", Level: EdgeOff},
		},
	}
	lines := edgeLines(BuildPrompt(req))
	require.Len(t, lines, 3)
	assert.Equal(t, "- [HIGH] Exception scenarios (expected exceptions, error handling)", lines[0])
	assert.Equal(t, "- [HIGH] Null inputs and null returns", lines[1])
	assert.Equal(t, "- [MEDIUM] Boundary values (0, -1, Integer.MAX_VALUE, Integer.MIN_VALUE)", lines[2])
}

func TestBuildPrompt_EdgeCaseFallbackAndUnknownIDs(t *testing.T) {
	doc := BuildPrompt(GenerationRequest{SourceText: "class A {}"})
	assert.Equal(t, []string{"- No specific edge cases selected"}, edgeLines(doc))

	doc = BuildPrompt(GenerationRequest{
		SourceText: "class A {}",
		EdgeCases: []EdgeCasePriority{
			{ID: "timezone", Level: EdgeLow},
			{ID: "null", Level: "urgent"},
		},
	})
	assert.Equal(t, []string{"- [LOW] timezone"}, edgeLines(doc))
}

func TestExtractTags(t *testing.T) {
	got := ExtractTags("@findById rule one @save rule two @findById again")
	assert.Equal(t, []string{"findById", "save"}, got)
	assert.Empty(t, ExtractTags("no tags here, just an email-ish a @ b"))
}

func TestBuildPrompt_NotesSection(t *testing.T) {
	t.Run("empty notes omit the block", func(t *testing.T) {
		doc := BuildPrompt(GenerationRequest{SourceText: "class A {}", Notes: "   "})
		assert.NotContains(t, doc, "BUSINESS LOGIC NOTES")
	})

	t.Run("tags produce a callout", func(t *testing.T) {
		doc := BuildPrompt(GenerationRequest{SourceText: "class A {}", Notes: "@findById rule one @save rule two @findById again"})
		assert.Contains(t, doc, "BUSINESS LOGIC NOTES (from the developer):\n@findById rule one")
		assert.Contains(t, doc, "tagged these methods with @: findById, save\n")
	})

	t.Run("untagged notes have no callout", func(t *testing.T) {
		doc := BuildPrompt(GenerationRequest{SourceText: "class A {}", Notes: "totals are never negative"})
		assert.Contains(t, doc, "totals are never negative")
		assert.NotContains(t, doc, "tagged these methods")
	})
}

func TestBuildPrompt_UnitSection(t *testing.T) {
	doc := BuildPrompt(GenerationRequest{SourceText: "class A {}"})
	assert.NotContains(t, doc, "METHOD PRIORITIES")

	doc = BuildPrompt(GenerationRequest{
		SourceText: "class A {}",
		Units: []UnitPriority{
			{Name: "a", Level: UnitNormal},
			{Name: "b", Level: UnitCritical},
			{Name: "c", Level: UnitNormal},
			{Name: "d", Level: UnitSkip},
		},
	})
	assert.Contains(t, doc, "METHOD PRIORITIES (set by the developer):\n"+
		"CRITICAL (generate exhaustive tests, cover every edge case): b\n"+
		"NORMAL (generate standard tests): a, c\n"+
		"SKIP (do NOT generate tests for these): d\n\n")
	assert.NotContains(t, doc, "IMPORTANT (generate thorough tests)")
}

func TestBuildPrompt_CategoryStrategy(t *testing.T) {
	doc := BuildPrompt(GenerationRequest{SourceText: "class A {}", Category: CategoryController})
	assert.Contains(t, doc, "CLASS TYPE: REST Controller")

	doc = BuildPrompt(GenerationRequest{SourceText: "class A {}", Category: ParseCategory("widget")})
	assert.NotContains(t, doc, "CLASS TYPE:")
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryDTO, ParseCategory(" DTO "))
	assert.Equal(t, CategoryUnknown, ParseCategory(""))
	assert.Equal(t, CategoryUnknown, ParseCategory("widget"))
}

func TestBuildPrompt_DependencySection(t *testing.T) {
	t.Run("absent descriptor", func(t *testing.T) {
		doc := BuildPrompt(GenerationRequest{SourceText: "class A {}"})
		assert.NotContains(t, doc, "PROJECT DEPENDENCIES")
		assert.Contains(t, doc, modernRequirements)
		assert.NotContains(t, doc, assertJRequirement)
	})

	t.Run("bare descriptor uses manual hints", func(t *testing.T) {
		doc := BuildPrompt(GenerationRequest{SourceText: "class A {}", Dependencies: &DependencyEnv{}})
		assert.Contains(t, doc, "- Mocking: No Mockito found")
		assert.Contains(t, doc, "- Assertions: Use standard JUnit assertions")
		assert.Contains(t, doc, "Do NOT import libraries the project does not have.")
		assert.NotContains(t, doc, "Spring Boot project")
	})

	t.Run("flags and assertj", func(t *testing.T) {
		doc := BuildPrompt(fullRequest())
		assert.Contains(t, doc, "- Java version: 17")
		assert.Contains(t, doc, "- Test framework: JUnit 5")
		assert.Contains(t, doc, "- Spring Boot project")
		assert.Contains(t, doc, "- Spring Data JPA")
		assert.NotContains(t, doc, "- H2 database")
		assert.Contains(t, doc, modernRequirements+"\n"+assertJRequirement)
	})

	t.Run("junit4 switches requirements", func(t *testing.T) {
		doc := BuildPrompt(GenerationRequest{
			SourceText:   "class A {}",
			Dependencies: &DependencyEnv{TestFramework: "junit4", AssertionLib: "assertj"},
		})
		assert.Contains(t, doc, legacyRequirements)
		assert.NotContains(t, doc, modernRequirements)
		assert.NotContains(t, doc, assertJRequirement)
	})
}

func TestBuildPrompt_AnnotationsGroupedByFirstAppearance(t *testing.T) {
	doc := BuildPrompt(fullRequest())
	assert.Contains(t, doc, "DETECTED ANNOTATIONS (adapt tests accordingly):\n"+
		"[SPRING-CORE]\n"+
		"- @Service: Unit test with mocked dependencies\n"+
		"- @Autowired: Use @Mock and @InjectMocks\n"+
		"[TRANSACTION]\n"+
		"- @Transactional: Test rollback on exception\n")
}

func TestBuildPrompt_SectionOrder(t *testing.T) {
	doc := BuildPrompt(fullRequest())
	markers := []string{
		rolePreamble,
		"JAVA CODE:\n```java\n" + sampleSource + "\n```",
		"CLASS TYPE: Business Service",
		"PROJECT DEPENDENCIES",
		"DETECTED ANNOTATIONS",
		"METHOD PRIORITIES",
		"BUSINESS LOGIC NOTES",
		"EDGE CASES TO TEST",
		"PRIORITY RULES:",
		"REQUIREMENTS:",
		"OUTPUT FORMAT:",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(doc, m)
		require.GreaterOrEqual(t, idx, 0, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
	assert.True(t, strings.HasSuffix(doc, "Ensure proper package declaration if the original code has one"))
}
