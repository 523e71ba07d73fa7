package server

import (
	"net/http"

	"github.com/tidwall/gjson"

	"instant_test/detect"
	"instant_test/generator"
)

type analyzeResp struct {
	Category              generator.Category       `json:"category"`
	ClassName             string                   `json:"className"`
	Annotations           []generator.Annotation   `json:"annotations"`
	Units                 []detect.Unit            `json:"units"`
	DependencyEnvironment *generator.DependencyEnv `json:"dependencyEnvironment,omitempty"`
	Dependencies          []detect.Dependency      `json:"dependencies,omitempty"`
	Suggestions           []detect.Suggestion      `json:"suggestions,omitempty"`
}

// handleAnalyze runs the heuristic detectors so a client can prefill the
// generation form. No model is called.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	root, err := parseObject(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	src, err := sourceText(root)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := analyzeResp{
		Category:    detect.Category(src),
		ClassName:   detect.ClassName(src),
		Annotations: nonNil(detect.Annotations(src)),
		Units:       nonNil(detect.Units(src)),
	}
	if pom := root.Get("pomXml"); pom.Type == gjson.String && pom.Str != "" {
		parsed, err := detect.ParsePom(pom.Str)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid pom.xml: "+err.Error())
			return
		}
		resp.Dependencies = parsed.Dependencies
		resp.DependencyEnvironment, resp.Suggestions = detect.Analyze(parsed, resp.Category)
	}
	writeJSON(w, http.StatusOK, resp)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
