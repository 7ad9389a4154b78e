// Package docs embeds the infl documentation, one markdown file per topic.
package docs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.md
var files embed.FS

// Index is the topic listing the others. It is shown when no topic is asked
// for and is not part of Topics.
const Index = "readme"

// All stands for every topic but the Index.
const All = "*"

// ErrUnknownTopic is returned for a topic with no embedded document.
var ErrUnknownTopic = errors.New("unknown topic")

// Topics returns the sorted topic names.
func Topics() []string {
	names, _ := fs.Glob(files, "*.md") // the pattern is constant
	topics := make([]string, 0, len(names))
	for _, name := range names {
		if topic := strings.TrimSuffix(name, ".md"); topic != Index {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

// Topic returns the markdown of a single topic, or of every topic for All.
func Topic(topic string) (string, error) { return Read(topic) }

// Read returns the markdown of the topics, in order, separated by a blank
// line. All expands to every topic.
func Read(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range expand(topics) {
		content, err := files.ReadFile(topic + ".md")
		if err != nil {
			return "", fmt.Errorf("%w %q, try one of: %s", ErrUnknownTopic, topic, strings.Join(Topics(), ", "))
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.Write(content)
	}
	return b.String(), nil
}

func expand(topics []string) []string {
	var res []string
	for _, topic := range topics {
		if topic == All {
			res = append(res, Topics()...)
			continue
		}
		res = append(res, topic)
	}
	return res
}
