package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"prepserver/importer"
	"prepserver/normalization"
)

func main() {
	inputPath := flag.String("input", "", "Path to the input table (csv or xlsx)")
	column := flag.String("column", "", "Name of the column to standardize")
	kind := flag.String("kind", "clinic_name", "Column kind: clinic_name or isolated_organisms")
	mappingPath := flag.String("mapping", "", "Path to a JSON mapping file (key -> replacement)")
	outputPath := flag.String("output", "standardized.csv", "Path to the output table (csv or xlsx)")
	flag.Parse()

	if *inputPath == "" || *column == "" {
		flag.Usage()
		os.Exit(2)
	}

	table, err := parseTable(*inputPath)
	if err != nil {
		log.Fatalf("failed to load table: %v", err)
	}

	store := normalization.NewMappingStore()
	if *mappingPath != "" {
		data, err := os.ReadFile(*mappingPath)
		if err != nil {
			log.Fatalf("failed to read mapping file: %v", err)
		}
		mapping, err := normalization.ParseMapping(data)
		if err != nil {
			log.Fatalf("failed to parse mapping file: %v", err)
		}
		store.Merge(mapping)
	}

	values, err := table.Column(*column)
	if err != nil {
		log.Fatalf("column %q not found: %v", *column, err)
	}
	cells := normalization.CellsFromStrings(values)

	var replaced []string
	switch *kind {
	case "clinic_name":
		applier := normalization.NewClinicNameApplier(normalization.NewClinicNameCleaner(), store)
		replaced = applier.ApplyColumn(cells)
	case "isolated_organisms":
		applier := normalization.NewOrganismApplier(normalization.NewOrganismNameCleaner(), store)
		replaced = applier.ApplyColumn(cells)
	default:
		log.Fatalf("unknown column kind %q", *kind)
	}

	result, err := table.WithReplacedColumn(*column, replaced)
	if err != nil {
		log.Fatalf("failed to replace column: %v", err)
	}

	if err := writeTable(result, *outputPath); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	fmt.Println("\n--- Column Standardization ---")
	fmt.Printf("Input: %s\n", *inputPath)
	fmt.Printf("Column: %s (%s)\n", *column, *kind)
	fmt.Printf("Rows: %d\n", len(result.Rows))
	fmt.Printf("Mapping entries: %d\n", store.Len())
	fmt.Printf("Output: %s\n", *outputPath)
}

func parseTable(path string) (*importer.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return importer.ParseXLSX(bytes.NewReader(data))
	}
	return importer.ParseCSV(bytes.NewReader(data))
}

func writeTable(table *importer.Table, path string) error {
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		if err := importer.WriteXLSX(table, &buf); err != nil {
			return err
		}
	} else {
		if err := table.WriteCSV(&buf); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
