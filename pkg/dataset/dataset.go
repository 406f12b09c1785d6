package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/psychgraph/dsmviz/pkg/logging"
)

// RelationshipType classifies an edge in the relationship table
type RelationshipType string

const (
	RelationshipHasSymptom   RelationshipType = "HAS_SYMPTOM"
	RelationshipComorbidWith RelationshipType = "COMORBID_WITH"
)

// NodeType classifies an endpoint of a relationship
type NodeType string

const (
	NodeTypeDisorder NodeType = "Disorder"
	NodeTypeSymptom  NodeType = "Symptom"
)

// Record is one row of the relationship table
type Record struct {
	SourceName     string
	TargetName     string
	Relationship   RelationshipType
	SourceCategory string
	TargetCategory string
	SourceType     NodeType
	TargetType     NodeType
	// Row is the 1-based position in the input file (header counts as row 1)
	Row int
}

// columns are the required header names, in canonical order
var columns = []string{
	"source_name",
	"target_name",
	"relationship_type",
	"source_category",
	"target_category",
	"source_type",
	"target_type",
}

// Load reads the relationship table from path. It is all-or-nothing: any
// malformed row aborts the whole load with a typed error naming the row.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputNotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, err
	}

	logging.Info("loaded relationship table", "path", path, "rows", len(records))
	return records, nil
}

// Parse reads the relationship table from r. Exposed separately from Load
// so tests and alternative sources can feed readers directly.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	row := 1 // header
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		row++

		rec, err := parseRow(fields, index, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// columnIndex resolves required columns by header name, so column order in
// the file does not matter.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("input table missing required column %q", col)
		}
	}
	return index, nil
}

func parseRow(fields []string, index map[string]int, row int) (Record, error) {
	get := func(col string) string {
		i := index[col]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	for _, col := range columns {
		if get(col) == "" {
			return Record{}, &MalformedRecordError{Row: row, Field: col}
		}
	}

	rel, err := parseRelationship(get("relationship_type"), row)
	if err != nil {
		return Record{}, err
	}

	srcType, err := parseNodeType(get("source_type"), "source_type", row)
	if err != nil {
		return Record{}, err
	}
	tgtType, err := parseNodeType(get("target_type"), "target_type", row)
	if err != nil {
		return Record{}, err
	}

	return Record{
		SourceName:     get("source_name"),
		TargetName:     get("target_name"),
		Relationship:   rel,
		SourceCategory: get("source_category"),
		TargetCategory: get("target_category"),
		SourceType:     srcType,
		TargetType:     tgtType,
		Row:            row,
	}, nil
}

func parseRelationship(value string, row int) (RelationshipType, error) {
	switch strings.ToUpper(value) {
	case string(RelationshipHasSymptom):
		return RelationshipHasSymptom, nil
	case string(RelationshipComorbidWith):
		return RelationshipComorbidWith, nil
	default:
		return "", &UnknownRelationshipTypeError{Row: row, Value: value}
	}
}

func parseNodeType(value, field string, row int) (NodeType, error) {
	switch strings.ToLower(value) {
	case "disorder":
		return NodeTypeDisorder, nil
	case "symptom":
		return NodeTypeSymptom, nil
	default:
		// An unrecognized node type means the row is not usable
		return "", &MalformedRecordError{Row: row, Field: field}
	}
}
