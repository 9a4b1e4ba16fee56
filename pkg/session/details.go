package session

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// Detail is one row of a person's detail panel.
type Detail struct {
	Label string
	Value string
}

// Details returns the detail rows of the node with the given id: every
// payload field except name and children in key order, then the level,
// the direct-report count and the manager.
func (s *Session) Details(id hierarchy.ID) ([]Detail, error) {
	n, err := s.node(id)
	if err != nil {
		return nil, err
	}

	var rows []Detail
	for _, k := range n.Payload.Keys() {
		if k == hierarchy.KeyName || k == hierarchy.KeyChildren || k == hierarchy.KeyVirtual {
			continue
		}
		rows = append(rows, Detail{Label: k, Value: formatValue(n.Payload[k])})
	}

	rows = append(rows,
		Detail{Label: "Level", Value: strconv.Itoa(n.Level())},
		Detail{Label: "Direct Reports", Value: strconv.Itoa(n.DirectReports)},
	)
	if m := hierarchy.Manager(n); m != nil {
		manager := m.Name()
		if t := m.Payload.Title(); t != "" {
			manager += " (" + t + ")"
		}
		rows = append(rows, Detail{Label: "Manager", Value: manager})
	}
	return rows, nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
