package generator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var tagPattern = regexp.MustCompile(`@(\w+)`)

// BuildPrompt composes the instruction document for one request.
// Output depends only on req, so identical requests give identical documents.
func BuildPrompt(req GenerationRequest) string {
	sections := []string{
		rolePreamble,
		"JAVA CODE:\n```java\n" + req.SourceText + "\n```",
		categoryStrategies[req.Category],
		dependencySection(req.Dependencies),
		annotationSection(req.Annotations),
		unitSection(req.Units),
		notesSection(req.Notes),
		edgeCaseSection(req.EdgeCases),
		priorityRules,
		requirementsSection(req.Dependencies),
		outputFormat,
	}

	var sb strings.Builder
	for _, s := range sections {
		if s == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// ExtractTags returns the @identifiers mentioned in notes, unique and in
// first-occurrence order.
func ExtractTags(notes string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range tagPattern.FindAllStringSubmatch(notes, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		tags = append(tags, m[1])
	}
	return tags
}

func edgeCaseSection(cases []EdgeCasePriority) string {
	active := make([]EdgeCasePriority, 0, len(cases))
	for _, c := range cases {
		if _, ok := c.Level.rank(); ok {
			active = append(active, c)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		ri, _ := active[i].Level.rank()
		rj, _ := active[j].Level.rank()
		return ri < rj
	})

	var sb strings.Builder
	sb.WriteString("EDGE CASES TO TEST (sorted by priority):")
	if len(active) == 0 {
		sb.WriteString("\n- No specific edge cases selected")
		return sb.String()
	}
	for _, c := range active {
		desc, ok := edgeCaseDescriptions[c.ID]
		if !ok {
			desc = c.ID
		}
		fmt.Fprintf(&sb, "\n- [%s] %s", strings.ToUpper(string(c.Level)), desc)
	}
	return sb.String()
}

func notesSection(notes string) string {
	if strings.TrimSpace(notes) == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("BUSINESS LOGIC NOTES (from the developer):\n")
	sb.WriteString(notes)
	if tags := ExtractTags(notes); len(tags) > 0 {
		fmt.Fprintf(&sb, "\n\nThe developer has specifically tagged these methods with @: %s\n", strings.Join(tags, ", "))
		sb.WriteString("Pay special attention to the business rules described for each tagged method.\n")
		sb.WriteString("The notes use @methodName to indicate which method a rule applies to; weight the text next to each tag heavily when generating tests for that method.")
	}
	return sb.String()
}

func unitSection(units []UnitPriority) string {
	if len(units) == 0 {
		return ""
	}
	var critical, important, normal, skipped []string
	for _, u := range units {
		switch u.Level {
		case UnitCritical:
			critical = append(critical, u.Name)
		case UnitImportant:
			important = append(important, u.Name)
		case UnitNormal:
			normal = append(normal, u.Name)
		case UnitSkip:
			skipped = append(skipped, u.Name)
		}
	}

	var sb strings.Builder
	sb.WriteString("METHOD PRIORITIES (set by the developer):")
	line := func(label string, names []string) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n%s: %s", label, strings.Join(names, ", "))
	}
	line("CRITICAL (generate exhaustive tests, cover every edge case)", critical)
	line("IMPORTANT (generate thorough tests)", important)
	line("NORMAL (generate standard tests)", normal)
	line("SKIP (do NOT generate tests for these)", skipped)
	return sb.String()
}

func dependencySection(env *DependencyEnv) string {
	if env == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("PROJECT DEPENDENCIES (from pom.xml):")
	if env.JavaVersion != "" {
		fmt.Fprintf(&sb, "\n- Java version: %s", env.JavaVersion)
	}
	switch env.TestFramework {
	case "junit5":
		sb.WriteString("\n- Test framework: JUnit 5 (jupiter) - use org.junit.jupiter.api.* imports")
	case "junit4":
		sb.WriteString("\n- Test framework: JUnit 4 - use org.junit.* imports, @Test from org.junit.Test, use @RunWith instead of @ExtendWith")
	}
	if env.MockingLib == "mockito" {
		sb.WriteString("\n- Mocking: Mockito available - use @Mock, @InjectMocks, when/thenReturn")
	} else {
		sb.WriteString("\n- Mocking: No Mockito found - use manual stubs or constructor injection for testing")
	}
	switch env.AssertionLib {
	case "assertj":
		sb.WriteString("\n- Assertions: AssertJ available - prefer assertThat() fluent assertions")
	case "hamcrest":
		sb.WriteString("\n- Assertions: Hamcrest available - use assertThat with matchers")
	default:
		sb.WriteString("\n- Assertions: Use standard JUnit assertions (assertEquals, assertTrue, assertThrows)")
	}
	if env.SpringBoot {
		sb.WriteString("\n- Spring Boot project: @SpringBootTest, @MockBean available")
	}
	if env.SpringWeb {
		sb.WriteString("\n- Spring Web: MockMvc available for controller testing")
	}
	if env.SpringJPA {
		sb.WriteString("\n- Spring Data JPA: @DataJpaTest available for repository testing")
	}
	if env.HasH2 {
		sb.WriteString("\n- H2 database: Available for integration tests")
	}
	if env.HasLombok {
		sb.WriteString("\n- Lombok: Project uses Lombok - respect @Data, @Builder, @AllArgsConstructor etc.")
	}
	sb.WriteString("\n\nIMPORTANT: Only use libraries and imports that exist in the project dependencies above. Do NOT import libraries the project does not have.")
	return sb.String()
}

func annotationSection(anns []Annotation) string {
	if len(anns) == 0 {
		return ""
	}
	var order []string
	grouped := make(map[string][]Annotation)
	for _, a := range anns {
		if _, ok := grouped[a.Category]; !ok {
			order = append(order, a.Category)
		}
		grouped[a.Category] = append(grouped[a.Category], a)
	}

	var sb strings.Builder
	sb.WriteString("DETECTED ANNOTATIONS (adapt tests accordingly):")
	for _, cat := range order {
		fmt.Fprintf(&sb, "\n[%s]", strings.ToUpper(cat))
		for _, a := range grouped[cat] {
			fmt.Fprintf(&sb, "\n- @%s: %s", a.Name, a.Hint)
		}
	}
	sb.WriteString("\n\nIMPORTANT: Generate tests that specifically address the behavior implied by these annotations.")
	return sb.String()
}

func requirementsSection(env *DependencyEnv) string {
	if env != nil && env.TestFramework == "junit4" {
		return legacyRequirements
	}
	if env == nil {
		return modernRequirements
	}
	switch env.AssertionLib {
	case "assertj":
		return modernRequirements + "\n" + assertJRequirement
	case "hamcrest":
		return modernRequirements + "\n" + hamcrestRequirement
	}
	return modernRequirements
}
