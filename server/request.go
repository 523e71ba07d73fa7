package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"instant_test/generator"
)

var (
	errCredentialRequired = errors.New("A Gemini API key is required")
	errSourceRequired     = errors.New("Code is required and must be a non-empty string")
	errSourceTooLarge     = errors.New("Code is too large (max 50,000 characters)")
	errInvalidJSON        = errors.New("Request body must be a JSON object")
)

// readBody reads the whole request body under the configured size cap and
// writes the error response itself when it cannot.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}
	return body, true
}

// field returns the first of names present in obj, so the frontend's legacy
// field names keep working next to the current ones.
func field(obj gjson.Result, names ...string) gjson.Result {
	for _, n := range names {
		if v := obj.Get(n); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func parseObject(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errInvalidJSON
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return gjson.Result{}, errInvalidJSON
	}
	return root, nil
}

// sourceText validates the snippet; the size check counts characters, not bytes.
func sourceText(root gjson.Result) (string, error) {
	v := field(root, "sourceText", "code")
	if v.Type != gjson.String || strings.TrimSpace(v.Str) == "" {
		return "", errSourceRequired
	}
	if utf8.RuneCountInString(v.Str) > generator.MaxSourceChars {
		return "", errSourceTooLarge
	}
	return v.Str, nil
}

func (s *Server) credential(root gjson.Result) (string, error) {
	v := field(root, "credential", "apiKey")
	if !v.Exists() || v.Type == gjson.Null {
		if s.cfg.AllowServerCredential && strings.TrimSpace(s.serverCredential) != "" {
			return s.serverCredential, nil
		}
		return "", errCredentialRequired
	}
	if v.Type != gjson.String || strings.TrimSpace(v.Str) == "" {
		return "", errCredentialRequired
	}
	return strings.TrimSpace(v.Str), nil
}

// decodeGenerate validates the request and fills defaults. Credential and
// source are checked before anything else is looked at.
func (s *Server) decodeGenerate(body []byte) (generator.GenerationRequest, string, error) {
	root, err := parseObject(body)
	if err != nil {
		return generator.GenerationRequest{}, "", err
	}
	cred, err := s.credential(root)
	if err != nil {
		return generator.GenerationRequest{}, "", err
	}
	src, err := sourceText(root)
	if err != nil {
		return generator.GenerationRequest{}, "", err
	}

	req := generator.GenerationRequest{
		SourceText:   src,
		EdgeCases:    edgeCases(field(root, "edgeCasePriorities", "casePriorities")),
		Units:        units(field(root, "unitPriorities", "methodPriorities")),
		Category:     generator.CategoryUnknown,
		Dependencies: dependencyEnv(field(root, "dependencyEnvironment", "pomInfo")),
		Annotations:  annotations(field(root, "detectedAnnotations", "annotations")),
	}
	if notes := root.Get("notes"); notes.Type == gjson.String {
		req.Notes = notes.Str
	}
	if c := field(root, "detectedCategory", "classType"); c.Type == gjson.String {
		req.Category = generator.ParseCategory(c.Str)
	}
	return req, cred, nil
}

// edgeCases keeps the object's key order; a missing or non-object value gets
// the default priorities.
func edgeCases(v gjson.Result) []generator.EdgeCasePriority {
	if !v.IsObject() {
		return generator.DefaultEdgeCases()
	}
	out := []generator.EdgeCasePriority{}
	v.ForEach(func(key, value gjson.Result) bool {
		out = append(out, generator.EdgeCasePriority{
			ID:    key.String(),
			Level: generator.EdgeLevel(strings.ToLower(value.String())),
		})
		return true
	})
	return out
}

func units(v gjson.Result) []generator.UnitPriority {
	if !v.IsObject() {
		return nil
	}
	var out []generator.UnitPriority
	v.ForEach(func(key, value gjson.Result) bool {
		out = append(out, generator.UnitPriority{
			Name:  key.String(),
			Level: generator.UnitLevel(strings.ToLower(value.String())),
		})
		return true
	})
	return out
}

func annotations(v gjson.Result) []generator.Annotation {
	if !v.IsArray() {
		return nil
	}
	var out []generator.Annotation
	for _, item := range v.Array() {
		name := item.Get("name")
		if !item.IsObject() || name.Type != gjson.String || name.Str == "" {
			continue
		}
		hint := item.Get("hint")
		if !hint.Exists() {
			hint = item.Get("testHint")
		}
		out = append(out, generator.Annotation{
			Name:     name.Str,
			Category: item.Get("category").String(),
			Hint:     hint.String(),
		})
	}
	return out
}

// dependencyEnv accepts javaVersion as a string or a number.
func dependencyEnv(v gjson.Result) *generator.DependencyEnv {
	if !v.IsObject() {
		return nil
	}
	env := &generator.DependencyEnv{
		TestFramework: v.Get("testFramework").String(),
		MockingLib:    v.Get("mockingLib").String(),
		AssertionLib:  v.Get("assertionLib").String(),
		SpringBoot:    v.Get("springBoot").Bool(),
		SpringWeb:     v.Get("springWeb").Bool(),
		SpringJPA:     v.Get("springJpa").Bool(),
		HasH2:         v.Get("hasH2").Bool(),
		HasLombok:     v.Get("hasLombok").Bool(),
	}
	if jv := v.Get("javaVersion"); jv.Type == gjson.String || jv.Type == gjson.Number {
		env.JavaVersion = jv.String()
	}
	return env
}
