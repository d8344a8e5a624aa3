package catalog

import (
	"encoding/csv"
	"io"
	"strings"
)

// Dataset rows: group, standard question, intent, variant, answer.
// An empty variant column means the standard question doubles as its own
// variant. Group, question and answer are mandatory.

type datasetRow struct {
	Group    string
	Question string
	Intent   string
	Variant  string
	Answer   string
}

var headerKeywords = []string{"group", "question", "intent", "variant", "answer"}

func isHeaderRow(fields []string) bool {
	for _, field := range fields {
		lowered := strings.ToLower(field)
		for _, keyword := range headerKeywords {
			if strings.Contains(lowered, keyword) {
				return true
			}
		}
	}
	return false
}

func cleanField(field string) string {
	field = strings.ReplaceAll(field, " ", " ")
	field = strings.ReplaceAll(field, `"`, "")
	field = strings.ReplaceAll(field, "'", "")
	return strings.TrimSpace(field)
}

// parseDataset reads dataset rows, skipping a header row when present and
// counting rows dropped for missing mandatory fields.
func parseDataset(r io.Reader) ([]datasetRow, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var (
		rows    []datasetRow
		skipped int
		first   = true
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		if first {
			first = false
			if isHeaderRow(record) {
				continue
			}
		}
		if len(record) < 5 {
			skipped++
			continue
		}
		row := datasetRow{
			Group:    cleanField(record[0]),
			Question: cleanField(record[1]),
			Intent:   cleanField(record[2]),
			Variant:  cleanField(record[3]),
			Answer:   cleanField(record[4]),
		}
		if row.Group == "" || row.Question == "" || row.Answer == "" {
			skipped++
			continue
		}
		if row.Variant == "" {
			row.Variant = row.Question
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}
