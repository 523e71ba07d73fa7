package generator

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var fenceLine = regexp.MustCompile("(?m)^[ \t]*```[\\w+#.-]*[ \t]*(?:\r?\n|$)")

// StripCodeFence removes markdown fencing the model may wrap its answer in.
// A response that is a single fenced block is unwrapped to its body; otherwise
// stray fence lines are dropped. The result is trimmed.
func StripCodeFence(raw string) string {
	src := []byte(strings.TrimSpace(raw))
	if body, ok := singleFencedBlock(src); ok {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(fenceLine.ReplaceAllString(string(src), ""))
}

func singleFencedBlock(src []byte) (string, bool) {
	if !bytes.HasPrefix(src, []byte("```")) {
		return "", false
	}
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	if doc.ChildCount() != 1 {
		return "", false
	}
	block, ok := doc.FirstChild().(*ast.FencedCodeBlock)
	if !ok {
		return "", false
	}
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String(), true
}
