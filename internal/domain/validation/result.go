// Package validation carries the accumulate-everything result shape used
// wherever invalid input is reported instead of returned as an error.
package validation

import "fmt"

type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func NewResult() Result {
	return Result{Valid: true, Errors: []string{}}
}

func (r *Result) Add(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

func (r *Result) Addf(format string, args ...any) {
	r.Add(fmt.Sprintf(format, args...))
}

func (r *Result) Merge(other Result) {
	for _, e := range other.Errors {
		r.Add(e)
	}
}
