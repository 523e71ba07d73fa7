package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	code := "class OrderServiceTest {\n    @Test\n    void ok() {}\n}"

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"language tagged fence", "```java\n" + code + "\n```", code},
		{"bare fence", "```\n" + code + "\n```", code},
		{"surrounding whitespace", "\n\n  ```java\n" + code + "\n```\n\n", code},
		{"no fence", "  " + code + "\n", code},
		{"unterminated fence", "```java\n" + code + "\n", code},
		{"fence followed by prose", "```java\n" + code + "\n```\nHope this helps", code + "\nHope this helps"},
		{"other language tag", "```kotlin\nfun main() {}\n```", "fun main() {}"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StripCodeFence(tc.raw)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got, "```")
		})
	}
}
