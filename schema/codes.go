package schema

import (
	"fmt"
	"strings"
)

// resolveNodesCodeLists runs the second resolution pass over an already
// placeholder-resolved node list: every element whose data_type is ID and
// whose data_type_ids is still a bare string gets that string looked up
// in codes and replaced with the resolved map. This walks into composite
// sub-elements too, not just a segment's immediate elements, since a
// composite's sub-elements are elements in their own right.
func resolveNodesCodeLists(formatName string, nodes []Node, codes map[string]map[string]string) ([]Node, error) {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		resolved, err := resolveNodeCodeLists(formatName, n, codes)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func resolveNodeCodeLists(formatName string, n Node, codes map[string]map[string]string) (Node, error) {
	switch n.Type {
	case Loop:
		children, err := resolveNodesCodeLists(formatName, n.Segments, codes)
		if err != nil {
			return Node{}, err
		}
		n.Segments = children
		return n, nil
	case Segment, Composite:
		elems, err := resolveNodesCodeLists(formatName, n.Elements, codes)
		if err != nil {
			return Node{}, err
		}
		n.Elements = elems
		return n, nil
	case Element:
		if strings.EqualFold(n.DataType, string(ID)) {
			if ref, ok := n.DataTypeIDs.(string); ok {
				list, found := codes[ref]
				if !found {
					return Node{}, &Error{
						Kind: CodeListUnresolved, Format: formatName, NodeID: n.ID,
						Msg: fmt.Sprintf("missing code list %q", ref),
					}
				}
				n.DataTypeIDs = list
			}
		}
		return n, nil
	default:
		return n, nil
	}
}
