package app

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
)

// PromptDateLayout formats "today" in the prompt.
const PromptDateLayout = "2006-Jan-02"

// DefaultPromptTemplate asks for a short positive daily report. It is
// executed with PromptData.
const DefaultPromptTemplate = `You are a journalist, and today is {{.Today}}. Using the {{.Chain}} data, please write an English daily report on {{.Chain}}. The report should be written in a positive tone.
{{range .Days}}{{.Date}} {{$.Chain}} Data info begin.
{{range .Items}}'{{.Item}}' has the value of {{.Value}}.
{{end}}{{.Date}} Data info end.

{{end}}`

// PromptData is the input of the prompt template.
type PromptData struct {
	Today string
	Chain string
	Days  []PromptDay
}

// PromptDay holds the rows of one report date.
type PromptDay struct {
	Date  string
	Items []domain.Row
}

// NewPromptData groups rows by date, keeping the order dates first appear in.
func NewPromptData(chain string, today time.Time, rows []domain.Row) PromptData {
	data := PromptData{Today: today.Format(PromptDateLayout), Chain: chain}
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.Date]
		if !ok {
			i = len(data.Days)
			index[r.Date] = i
			data.Days = append(data.Days, PromptDay{Date: r.Date})
		}
		data.Days[i].Items = append(data.Days[i].Items, r)
	}
	return data
}

// ParsePrompt parses a prompt template. An empty text uses
// DefaultPromptTemplate.
func ParsePrompt(text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultPromptTemplate
	}
	t, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: parse prompt template: %v", domain.ErrInvalidConfig, err)
	}
	return t, nil
}

// RenderPrompt executes t with data.
func RenderPrompt(t *template.Template, data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
