package main

import (
	"fmt"
	"io"

	"github.com/NivBraz/speller/internal/models"
)

// writeReport prints misspelled words one per line followed by the totals.
func writeReport(w io.Writer, result *models.Result) {
	fmt.Fprintln(w, "\nMISSPELLED WORDS")
	for _, text := range result.Texts {
		if len(result.Texts) > 1 {
			fmt.Fprintf(w, "\n# %s\n", text.Source)
		}
		if text.Error != "" {
			fmt.Fprintf(w, "error: %s\n", text.Error)
			continue
		}
		if len(text.Misspelled) > 0 {
			fmt.Fprintln(w)
		}
		for _, word := range text.Misspelled {
			fmt.Fprintln(w, word)
		}
	}

	s := result.Stats
	fmt.Fprintf(w, "\nWORDS MISSPELLED:     %d\n", s.WordsMisspelled)
	fmt.Fprintf(w, "WORDS IN DICTIONARY:  %d\n", s.WordsInDictionary)
	fmt.Fprintf(w, "WORDS IN TEXT:        %d\n", s.WordsInText)
	fmt.Fprintf(w, "TIME IN load:         %.2f\n", s.TimeLoad)
	fmt.Fprintf(w, "TIME IN check:        %.2f\n", s.TimeCheck)
	fmt.Fprintf(w, "TIME IN size:         %.2f\n", s.TimeSize)
	fmt.Fprintf(w, "TIME IN unload:       %.2f\n", s.TimeUnload)
	fmt.Fprintf(w, "TIME IN TOTAL:        %.2f\n\n", s.TimeTotal)
}
