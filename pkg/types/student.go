package types

import "strings"

// Student is a person tracked by the system, identified by name and class.
type Student struct {
	ID    int64  `json:"elev_id"`
	Name  string `json:"navn"`
	Class string `json:"klasse"`
}

// StudentDetail is a student together with all of its accommodation records,
// ordered by subject-group name.
type StudentDetail struct {
	Student
	Accommodations []Accommodation `json:"tilrettelegginger"`
}

// NormalizeName capitalizes each space-separated word: the first rune upper
// case, the rest lower case. Runs of spaces are preserved.
func NormalizeName(name string) string {
	words := strings.Split(name, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}

// NormalizeClass upper-cases a class label.
func NormalizeClass(class string) string {
	return strings.ToUpper(class)
}
