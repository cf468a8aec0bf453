package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Render writes the report in human-readable form.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Inspection report for %s\n", r.Path)
	fmt.Fprintf(w, "Architecture: %s\n\n", r.Arch)

	for _, result := range r.Results {
		status := "PASS"
		if result.Status == StatusFail {
			status = "FAIL"
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", status, result.ID, result.Description)
		if result.Details != "" {
			fmt.Fprintf(w, "       %s\n", result.Details)
		}
	}

	fmt.Fprintf(w, "\nSummary: %d/%d checks passed\n", r.Summary.Passed, r.Summary.Total)
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	return r.Summary.Failed == 0
}

// WriteJSON writes the report to w as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// WriteJSONFile writes the report to a JSON file at path.
func (r *Report) WriteJSONFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := r.WriteJSON(file); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
