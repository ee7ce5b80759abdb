package main

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// money renders v with thousands separators, or "n/a" when unknown.
func money(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return printer.Sprintf("%.2f", *v)
}

func hours(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return printer.Sprintf("%.2f h", *v)
}

func str(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
