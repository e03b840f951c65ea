package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
)

// MaterialID is a material key as the database returned it. Integer keys
// encode as JSON numbers; uniqueidentifier and character keys as strings.
type MaterialID struct {
	v any
}

// IntID returns the MaterialID of an integer key.
func IntID(n int64) MaterialID { return MaterialID{v: n} }

// StringID returns the MaterialID of a uniqueidentifier or character key.
func StringID(s string) MaterialID { return MaterialID{v: s} }

// newMaterialID converts a raw driver value. dbType is the column's
// DatabaseTypeName and decides how byte slices are read.
func newMaterialID(raw any, dbType string) (MaterialID, error) {
	switch v := raw.(type) {
	case nil:
		return MaterialID{}, nil
	case int64, float64, string:
		return MaterialID{v: v}, nil
	case []byte:
		switch dbType {
		case "UNIQUEIDENTIFIER":
			var u mssql.UniqueIdentifier
			if err := u.Scan(v); err != nil {
				return MaterialID{}, err
			}
			return MaterialID{v: u.String()}, nil
		case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
			return MaterialID{v: json.Number(v)}, nil
		default:
			return MaterialID{v: string(v)}, nil
		}
	default:
		return MaterialID{}, fmt.Errorf("unsupported material id type %T", raw)
	}
}

func (id MaterialID) String() string {
	if id.v == nil {
		return "<null>"
	}
	return fmt.Sprint(id.v)
}

func (id MaterialID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.v)
}

func (id *MaterialID) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil, string:
		id.v = t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			id.v = n
		} else {
			id.v = t
		}
	default:
		return fmt.Errorf("material id: unexpected JSON %s", b)
	}
	return nil
}
