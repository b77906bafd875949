package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/julien-sobczak/the-noteweaver/internal/core"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var notesFormat string
var notesSelect string

func init() {
	notesCmd.Flags().StringVarP(&notesFormat, "format", "f", "text", "output format (text, yaml, json)")
	notesCmd.Flags().StringVarP(&notesSelect, "select", "s", "", "print the text of elements matching a CSS selector")
	rootCmd.AddCommand(notesCmd)
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List notes",
	Long:  `Print the published notes of the collection.`,
	Run: func(cmd *cobra.Command, args []string) {
		records := LoadRuntime().Records()
		if notesSelect != "" {
			matches, err := SelectText(records, notesSelect)
			exitOnError(err)
			for _, match := range matches {
				fmt.Println(match)
			}
			return
		}
		output, err := FormatRecords(records, notesFormat)
		exitOnError(err)
		fmt.Print(output)
	},
}

// FormatRecords formats notes as a list (text), YAML or JSON.
func FormatRecords(records []core.Record, format string) (string, error) {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "json":
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case "text":
		var sb strings.Builder
		for _, record := range records {
			sb.WriteString(headerStyle.Render(record.ID))
			sb.WriteString(" ")
			sb.WriteString(record.Title)
			sb.WriteString(" ")
			sb.WriteString(mutedStyle.Render(record.Path))
			if record.Error {
				sb.WriteString(" ")
				sb.WriteString(errorStyle.Render("error"))
			}
			sb.WriteString("\n")
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("unsupported format %q", format)
}

// SelectText returns "<note id>: <text>" for every element matching the selector.
func SelectText(records []core.Record, selector string) ([]string, error) {
	var results []string
	for _, record := range records {
		if record.HTML == "" {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(record.HTML))
		if err != nil {
			return nil, fmt.Errorf("unable to read note %q: %w", record.ID, err)
		}
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			results = append(results, record.ID+": "+strings.TrimSpace(s.Text()))
		})
	}
	return results, nil
}
