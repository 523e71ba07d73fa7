package detect

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"instant_test/generator"
)

// Dependency is one <dependency> entry of a pom.xml.
type Dependency struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version,omitempty"`
	Scope      string `json:"scope"`
	Name       string `json:"name"`
	Kind       string `json:"category"`
	TestOnly   bool   `json:"isTestDep"`
}

// Pom is the subset of a Maven descriptor the analyzer looks at.
type Pom struct {
	Properties   map[string]string `json:"properties"`
	JavaVersion  string            `json:"javaVersion,omitempty"`
	Dependencies []Dependency      `json:"dependencies"`
}

// Suggestion is a dependency hint shown next to the analysis.
type Suggestion struct {
	Level      string `json:"level"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	XML        string `json:"xml,omitempty"`
}

type knownDep struct {
	name string
	kind string
}

var knownTestDeps = map[string]knownDep{
	"junit-jupiter":                {"JUnit 5", "test-framework"},
	"junit-jupiter-api":            {"JUnit 5 API", "test-framework"},
	"junit-jupiter-engine":         {"JUnit 5 Engine", "test-framework"},
	"junit-jupiter-params":         {"JUnit 5 Params", "test-framework"},
	"junit":                        {"JUnit 4", "test-framework"},
	"mockito-core":                 {"Mockito", "mocking"},
	"mockito-junit-jupiter":        {"Mockito JUnit 5", "mocking"},
	"mockito-inline":               {"Mockito Inline", "mocking"},
	"spring-boot-starter-test":     {"Spring Boot Test", "spring"},
	"spring-test":                  {"Spring Test", "spring"},
	"spring-boot-starter-web":      {"Spring Web", "spring"},
	"spring-boot-starter-data-jpa": {"Spring Data JPA", "spring"},
	"assertj-core":                 {"AssertJ", "assertion"},
	"hamcrest":                     {"Hamcrest", "assertion"},
	"hamcrest-core":                {"Hamcrest Core", "assertion"},
	"h2":                           {"H2 Database", "database"},
	"testcontainers":               {"Testcontainers", "database"},
	"rest-assured":                 {"REST Assured", "api-test"},
	"wiremock":                     {"WireMock", "api-test"},
	"jackson-databind":             {"Jackson", "serialization"},
	"lombok":                       {"Lombok", "utility"},
	"mapstruct":                    {"MapStruct", "utility"},
}

var propertyRef = regexp.MustCompile(`\$\{(.+?)\}`)

type xmlDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
}

type xmlProperties struct {
	Entries []struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
	} `xml:",any"`
}

// ParsePom reads a pom.xml. Every <dependency> element is collected wherever
// it sits (dependencies, dependencyManagement, profiles). An empty input
// yields an empty Pom.
func ParsePom(text string) (*Pom, error) {
	pom := &Pom{Properties: map[string]string{}}
	if strings.TrimSpace(text) == "" {
		return pom, nil
	}

	var raw []xmlDependency
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse pom: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "properties":
			var props xmlProperties
			if err := dec.DecodeElement(&props, &start); err != nil {
				return nil, fmt.Errorf("parse pom properties: %w", err)
			}
			for _, e := range props.Entries {
				if _, dup := pom.Properties[e.XMLName.Local]; !dup {
					pom.Properties[e.XMLName.Local] = strings.TrimSpace(e.Value)
				}
			}
		case "dependency":
			var d xmlDependency
			if err := dec.DecodeElement(&d, &start); err != nil {
				return nil, fmt.Errorf("parse pom dependency: %w", err)
			}
			raw = append(raw, d)
		}
	}

	pom.JavaVersion = pom.Properties["java.version"]
	if pom.JavaVersion == "" {
		pom.JavaVersion = pom.Properties["maven.compiler.source"]
	}

	for _, d := range raw {
		artifact := strings.TrimSpace(d.ArtifactID)
		if artifact == "" {
			continue
		}
		scope := strings.TrimSpace(d.Scope)
		if scope == "" {
			scope = "compile"
		}
		dep := Dependency{
			GroupID:    strings.TrimSpace(d.GroupID),
			ArtifactID: artifact,
			Version:    pom.resolve(strings.TrimSpace(d.Version)),
			Scope:      scope,
			Name:       artifact,
			Kind:       "other",
		}
		known, ok := knownTestDeps[artifact]
		if ok {
			dep.Name, dep.Kind = known.name, known.kind
		}
		dep.TestOnly = scope == "test" || ok
		pom.Dependencies = append(pom.Dependencies, dep)
	}
	return pom, nil
}

// resolve substitutes a ${property} reference, keeping the raw text when the
// property is not defined.
func (p *Pom) resolve(version string) string {
	m := propertyRef.FindStringSubmatch(version)
	if m == nil {
		return version
	}
	if v, ok := p.Properties[m[1]]; ok && v != "" {
		return v
	}
	return version
}

const junitVersion = "5.10.2"

// Analyze derives the dependency environment of the project and suggests the
// test libraries it is missing for the given category.
func Analyze(p *Pom, category generator.Category) (*generator.DependencyEnv, []Suggestion) {
	if p == nil {
		p = &Pom{}
	}
	found := make(map[string]bool, len(p.Dependencies))
	anyStarter := false
	for _, d := range p.Dependencies {
		found[d.ArtifactID] = true
		if strings.HasPrefix(d.ArtifactID, "spring-boot-starter") {
			anyStarter = true
		}
	}
	has := func(artifacts ...string) bool {
		for _, a := range artifacts {
			if found[a] {
				return true
			}
		}
		return false
	}

	env := &generator.DependencyEnv{JavaVersion: p.JavaVersion}
	switch {
	case has("junit-jupiter", "junit-jupiter-api", "spring-boot-starter-test"):
		env.TestFramework = "junit5"
	case has("junit"):
		env.TestFramework = "junit4"
	}
	if has("mockito-core", "mockito-junit-jupiter", "spring-boot-starter-test") {
		env.MockingLib = "mockito"
	}
	switch {
	case has("assertj-core", "spring-boot-starter-test"):
		env.AssertionLib = "assertj"
	case has("hamcrest", "hamcrest-core"):
		env.AssertionLib = "hamcrest"
	}
	env.SpringBoot = anyStarter
	env.SpringWeb = has("spring-boot-starter-web", "spring-boot-starter-jetty")
	env.SpringJPA = has("spring-boot-starter-data-jpa")
	env.HasH2 = has("h2")
	env.HasLombok = has("lombok")

	java8 := isJava8(p.JavaVersion)
	mockitoVersion, assertjVersion := "5.11.0", "3.25.3"
	if java8 {
		mockitoVersion, assertjVersion = "4.11.0", "3.24.2"
	}

	var out []Suggestion
	if env.TestFramework == "" {
		out = append(out, Suggestion{
			Level:      "error",
			Message:    "No test framework found",
			Suggestion: "Add junit-jupiter (JUnit 5) to your pom.xml",
			XML:        dependencyXML("org.junit.jupiter", "junit-jupiter", junitVersion, "test"),
		})
	}
	if env.TestFramework == "junit4" {
		out = append(out, Suggestion{
			Level:      "warning",
			Message:    "Using JUnit 4 (legacy)",
			Suggestion: "Consider upgrading to JUnit 5 for better features. Tests will be generated with JUnit 4 syntax.",
		})
	}
	if env.MockingLib == "" {
		msg := "Add Mockito for mocking dependencies"
		if java8 {
			msg += " (v4.x for Java 8 compatibility)"
		}
		out = append(out, Suggestion{
			Level:      "warning",
			Message:    "No mocking library found",
			Suggestion: msg,
			XML:        dependencyXML("org.mockito", "mockito-junit-jupiter", mockitoVersion, "test"),
		})
	}
	if env.AssertionLib == "" {
		msg := "AssertJ provides fluent assertions"
		if java8 {
			msg += " (v3.24.x for Java 8 compatibility)"
		}
		out = append(out, Suggestion{
			Level:      "info",
			Message:    "No assertion library (AssertJ/Hamcrest)",
			Suggestion: msg,
			XML:        dependencyXML("org.assertj", "assertj-core", assertjVersion, "test"),
		})
	}
	if category == generator.CategoryController && !env.SpringWeb {
		out = append(out, Suggestion{
			Level:      "warning",
			Message:    "Controller detected but no Spring Web dependency",
			Suggestion: "MockMvc requires spring-boot-starter-web",
			XML:        dependencyXML("org.springframework.boot", "spring-boot-starter-web", "", ""),
		})
	}
	if category == generator.CategoryRepository && !env.HasH2 {
		out = append(out, Suggestion{
			Level:      "info",
			Message:    "Repository detected but no H2 database",
			Suggestion: "H2 is useful for @DataJpaTest integration tests",
			XML:        dependencyXML("com.h2database", "h2", "", "test"),
		})
	}
	if env.SpringBoot && !found["spring-boot-starter-test"] {
		out = append(out, Suggestion{
			Level:      "error",
			Message:    "Spring Boot project without spring-boot-starter-test",
			Suggestion: "This includes JUnit 5, Mockito, AssertJ, MockMvc all in one",
			XML:        dependencyXML("org.springframework.boot", "spring-boot-starter-test", "", "test"),
		})
	}
	return env, out
}

// isJava8 treats "1.8" and "8" as Java 8; an unreadable version counts as 17.
func isJava8(version string) bool {
	v, err := strconv.ParseFloat(leadingNumber(version), 64)
	if err != nil || v == 0 {
		return false
	}
	return v <= 1.8 || v == 8
}

// leadingNumber keeps the numeric prefix, so "17.0.2" reads as 17.0.
func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	end, dots := 0, 0
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if dots == 1 {
				break
			}
			dots++
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}
	return strings.TrimSuffix(s[:end], ".")
}

func dependencyXML(group, artifact, version, scope string) string {
	var sb strings.Builder
	sb.WriteString("<dependency>\n")
	sb.WriteString("  <groupId>" + group + "</groupId>\n")
	sb.WriteString("  <artifactId>" + artifact + "</artifactId>\n")
	if version != "" {
		sb.WriteString("  <version>" + version + "</version>\n")
	}
	if scope != "" {
		sb.WriteString("  <scope>" + scope + "</scope>\n")
	}
	sb.WriteString("</dependency>")
	return sb.String()
}
