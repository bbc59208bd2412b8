package chat

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed faq.yaml
var faqSource []byte

const (
	topicDefault = "default"
	fallbackLang = "en"
)

type faqTopic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// faqBook is the keyword-routed answer table used without a model.
type faqBook struct {
	Topics  []faqTopic                   `yaml:"topics"`
	Answers map[string]map[string]string `yaml:"answers"`
}

func parseFAQ(raw []byte) (*faqBook, error) {
	var book faqBook
	if err := yaml.Unmarshal(raw, &book); err != nil {
		return nil, fmt.Errorf("parse faq: %w", err)
	}
	if _, ok := book.Answers[fallbackLang][topicDefault]; !ok {
		return nil, fmt.Errorf("parse faq: missing %s/%s answer", fallbackLang, topicDefault)
	}
	return &book, nil
}

var defaultFAQ = mustParseFAQ(faqSource)

func mustParseFAQ(raw []byte) *faqBook {
	book, err := parseFAQ(raw)
	if err != nil {
		panic(err)
	}
	return book
}

// Topic returns the first topic whose keyword occurs in question.
func (b *faqBook) Topic(question string) string {
	q := strings.ToLower(question)
	for _, t := range b.Topics {
		for _, kw := range t.Keywords {
			if strings.Contains(q, kw) {
				return t.Name
			}
		}
	}
	return topicDefault
}

// Answer picks the canned answer for question in lang, falling back to English.
func (b *faqBook) Answer(question, lang string) string {
	topic := b.Topic(question)
	answers, ok := b.Answers[lang]
	if !ok {
		answers = b.Answers[fallbackLang]
	}
	if a, ok := answers[topic]; ok {
		return a
	}
	if a, ok := answers[topicDefault]; ok {
		return a
	}
	return b.Answers[fallbackLang][topicDefault]
}
