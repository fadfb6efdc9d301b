package bot

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

var messages = mustLoadMessages(messagesYAML)

func mustLoadMessages(data []byte) map[string]map[string]string {
	var m map[string]map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		panic(fmt.Sprintf("bot: parse messages.yaml: %v", err))
	}
	if len(m["en"]) == 0 {
		panic("bot: messages.yaml has no en entries")
	}
	return m
}

// t renders the message key in lang, falling back to English.
func t(lang, key string, args ...interface{}) string {
	format, ok := messages[lang][key]
	if !ok {
		format = messages["en"][key]
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
