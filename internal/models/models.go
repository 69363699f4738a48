package models

import "github.com/NivBraz/speller/pkg/wordset"

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type TextResult struct {
	Source          string   `json:"source"`
	Format          string   `json:"format"`
	Misspelled      []string `json:"misspelled,omitempty"`
	WordsMisspelled int      `json:"wordsMisspelled"`
	WordsInText     int      `json:"wordsInText"`
	Error           string   `json:"error,omitempty"`
}

type Stats struct {
	WordsMisspelled   int           `json:"wordsMisspelled"`
	WordsInDictionary int           `json:"wordsInDictionary"`
	WordsInText       int           `json:"wordsInText"`
	TimeLoad          float64       `json:"timeLoadSeconds"`
	TimeCheck         float64       `json:"timeCheckSeconds"`
	TimeSize          float64       `json:"timeSizeSeconds"`
	TimeUnload        float64       `json:"timeUnloadSeconds"`
	TimeTotal         float64       `json:"timeTotalSeconds"`
	Table             wordset.Stats `json:"table"`
}

type Result struct {
	RunID         string       `json:"runId"`
	Dictionary    string       `json:"dictionary"`
	Texts         []TextResult `json:"texts"`
	TopMisspelled []WordCount  `json:"topMisspelled"`
	Stats         Stats        `json:"stats"`
}
