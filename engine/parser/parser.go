// Package parser converts command strings into verb/object pairs.
// Intentionally dumb: no NLP, just splitting and a few fixed patterns.
package parser

import (
	"strconv"
	"strings"
)

// Command is a parsed line of player input.
type Command struct {
	Verb   string
	Object string
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Normalize lower-cases input, trims it and collapses inner whitespace.
func Normalize(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}

// Parse splits input into a verb and the remaining object text on the
// first space. A leading article on the object is dropped.
func Parse(input string) Command {
	input = Normalize(input)
	if input == "" {
		return Command{}
	}
	verb, rest, _ := strings.Cut(input, " ")
	return Command{Verb: verb, Object: stripArticle(rest)}
}

func stripArticle(s string) string {
	first, rest, ok := strings.Cut(s, " ")
	if ok && articles[first] {
		return rest
	}
	return s
}

// All is the quantity returned for "all".
const All = -1

// Quantity parse failures.
const (
	MsgNoItem      = "What do you want to take?"
	MsgBadQuantity = "You need to specify a positive quantity."
)

// ParseQuantity splits an optional leading quantity ("all" or a positive
// integer) from an item name. The quantity defaults to 1. On failure the
// returned message is non-empty.
func ParseQuantity(obj string) (qty int, name string, msg string) {
	obj = strings.TrimSpace(obj)
	if obj == "" {
		return 0, "", MsgNoItem
	}
	first, rest, hasRest := strings.Cut(obj, " ")
	if first == "all" {
		if !hasRest || strings.TrimSpace(rest) == "" {
			return 0, "", MsgNoItem
		}
		return All, stripArticle(strings.TrimSpace(rest)), ""
	}
	if n, err := strconv.Atoi(first); err == nil {
		if n <= 0 {
			return 0, "", MsgBadQuantity
		}
		if !hasRest || strings.TrimSpace(rest) == "" {
			return 0, "", MsgNoItem
		}
		return n, stripArticle(strings.TrimSpace(rest)), ""
	}
	return 1, obj, ""
}

// DefaultTopic is the topic used when none is given.
const DefaultTopic = "default"

// ParseTalk extracts the NPC name and topic from "[to] <npc>[ about <topic>]".
func ParseTalk(obj string) (npc, topic string) {
	obj = strings.TrimSpace(obj)
	obj = strings.TrimPrefix(obj, "to ")
	npc, topic, found := strings.Cut(obj, " about ")
	npc = strings.TrimSpace(npc)
	topic = strings.TrimSpace(topic)
	if !found || topic == "" {
		topic = DefaultTopic
	}
	return npc, topic
}
