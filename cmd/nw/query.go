package main

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <jq expression>",
	Short: "Query the graph",
	Long:  `Evaluate a jq expression over the JSON export of the graph ({"entities": [...]}).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := LoadRuntime()
		values, err := Query(args[0], r.Graph().Export())
		exitOnError(err)
		for _, value := range values {
			data, err := json.MarshalIndent(value, "", "  ")
			exitOnError(err)
			fmt.Println(string(data))
		}
	},
}

// Query evaluates a jq expression and returns every output value.
func Query(expr string, data any) ([]any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, err
	}
	iter := query.Run(data)
	var values []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
