package models

import "sort"

// ProsAndCons keeps the curated arguments in the order they were written.
type ProsAndCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// NewsItem is a headline and where to read it.
type NewsItem struct {
	Headline string `json:"name"`
	URL      string `json:"link"`
}

// StockDetail is the full per-ticker record.
type StockDetail struct {
	Description Description       `json:"description"`
	BasicInfo   map[string]string `json:"basic_info"`
	ProsAndCons ProsAndCons       `json:"pros_and_cons"`
	TopNews     []NewsItem        `json:"top_news"`
}

// InfoLabels returns the basic_info labels sorted, for stable rendering.
func (d StockDetail) InfoLabels() []string {
	labels := make([]string, 0, len(d.BasicInfo))
	for k := range d.BasicInfo {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}
