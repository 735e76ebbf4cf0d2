package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Column sets for the CSV export.
var (
	ProductColumns = []string{"Product Name", "Price", "Rating", "Store", "Specifications"}
	ResultColumns  = []string{"Title", "Description", "Source", "Relevance"}
)

var (
	productKeys = []string{"name", "price", "rating", "store", "specifications"}
	resultKeys  = []string{"title", "description", "source", "relevance"}
)

// Items returns the "products" list of data, or else its "results" list,
// together with the key it came from. Non-object entries are skipped.
func Items(data map[string]any) (key string, items []map[string]any) {
	for _, k := range []string{"products", "results"} {
		raw, ok := data[k]
		if !ok {
			continue
		}
		list, _ := raw.([]any)
		for _, v := range list {
			if m, ok := v.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return k, items
	}
	return "", nil
}

// Normalize drops non-object entries from the "products" and "results"
// lists in place, so every rendering counts the same items.
func Normalize(data map[string]any) {
	for _, k := range []string{"products", "results"} {
		list, ok := data[k].([]any)
		if !ok {
			continue
		}
		kept := make([]any, 0, len(list))
		for _, v := range list {
			if _, ok := v.(map[string]any); ok {
				kept = append(kept, v)
			}
		}
		data[k] = kept
	}
}

func renderCSV(data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	key, items := Items(data)
	columns, keys := ProductColumns, productKeys
	if key == "results" {
		columns, keys = ResultColumns, resultKeys
	}

	if key != "" {
		if err := w.Write(columns); err != nil {
			return nil, err
		}
		for _, item := range items {
			row := make([]string, len(keys))
			for i, k := range keys {
				row[i] = cell(item[k], "")
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// RenderText formats data as the plain-text report used by txt and pdf
// exports.
func RenderText(data map[string]any, request string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search Results for: %s\n", request)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	key, items := Items(data)
	for i, item := range items {
		if key == "products" {
			fmt.Fprintf(&b, "Product %d:\n", i+1)
			fmt.Fprintf(&b, "  Name: %s\n", cell(item["name"], "N/A"))
			fmt.Fprintf(&b, "  Price: %s\n", cell(item["price"], "N/A"))
			fmt.Fprintf(&b, "  Rating: %s\n", cell(item["rating"], "N/A"))
			fmt.Fprintf(&b, "  Store: %s\n", cell(item["store"], "N/A"))
			fmt.Fprintf(&b, "  Specs: %s\n\n", cell(item["specifications"], "N/A"))
			continue
		}
		fmt.Fprintf(&b, "Result %d:\n", i+1)
		fmt.Fprintf(&b, "  Title: %s\n", cell(item["title"], "N/A"))
		fmt.Fprintf(&b, "  Description: %s\n", cell(item["description"], "N/A"))
		fmt.Fprintf(&b, "  Source: %s\n\n", cell(item["source"], "N/A"))
	}

	if summary, ok := data["summary"]; ok {
		fmt.Fprintf(&b, "Summary: %s\n", cell(summary, ""))
	}
	return b.String()
}

// cell renders a decoded JSON value for a report or CSV cell.
func cell(v any, missing string) string {
	switch x := v.(type) {
	case nil:
		return missing
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
