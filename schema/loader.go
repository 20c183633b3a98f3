package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Builder drains a formats directory and a code-list directory into a
// frozen Registry. It is the only writer; once Load returns, the caller
// should discard the Builder and keep only the Registry.
type Builder struct {
	FormatsDir string
	CodesDir   string
}

// NewBuilder returns a Builder reading transaction-set/segment files from
// formatsDir and code-list files from codesDir.
func NewBuilder(formatsDir, codesDir string) *Builder {
	return &Builder{FormatsDir: formatsDir, CodesDir: codesDir}
}

// Load reads every *.json file in both directories and returns the
// resolved, immutable Registry, or the first error encountered. A codes
// directory that does not exist counts as holding no code lists.
func (b *Builder) Load() (*Registry, error) {
	codes, err := loadCodes(b.CodesDir)
	if err != nil {
		return nil, err
	}

	raw, err := loadRawFormats(b.FormatsDir)
	if err != nil {
		return nil, err
	}

	res := &resolver{raw: raw, resolved: map[string][]Node{}, resolving: map[string]bool{}}
	for name := range raw {
		if _, err := res.resolve(name); err != nil {
			return nil, err
		}
	}

	for name, nodes := range res.resolved {
		withCodes, err := resolveNodesCodeLists(name, nodes, codes)
		if err != nil {
			return nil, err
		}
		res.resolved[name] = withCodes
	}

	return &Registry{formats: res.resolved, codes: codes}, nil
}

func loadCodes(dir string) (map[string]map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]map[string]string{}, nil
	}
	if err != nil {
		return nil, &Error{Kind: IoError, Format: dir, Msg: "reading codes directory", Err: err}
	}
	codes := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Kind: IoError, Format: name, Msg: "reading code list", Err: err}
		}
		if !gjson.ParseBytes(raw).IsObject() {
			return nil, &Error{Kind: BadShape, Format: name, Msg: "code list is not a JSON object"}
		}
		var list map[string]string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, &Error{Kind: BadShape, Format: name, Msg: "decoding code list", Err: err}
		}
		codes[name] = list
	}
	return codes, nil
}

func loadRawFormats(dir string) (map[string]json.RawMessage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &Error{Kind: IoError, Format: dir, Msg: "reading formats directory", Err: err}
	}
	raw := make(map[string]json.RawMessage, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Kind: IoError, Format: name, Msg: "reading format file", Err: err}
		}
		if !gjson.ParseBytes(data).IsArray() {
			return nil, &Error{Kind: BadShape, Format: name, Msg: "format file is not a JSON array of schema nodes"}
		}
		raw[name] = json.RawMessage(data)
	}
	return raw, nil
}

// resolver resolves segment placeholders lazily and memoized per format
// name, so a format is only ever parsed and resolved once regardless of
// discovery order, and a placeholder's target gets fully resolved before
// being copied even if the target hasn't been visited yet.
type resolver struct {
	raw       map[string]json.RawMessage
	resolved  map[string][]Node
	resolving map[string]bool
}

func (r *resolver) resolve(name string) ([]Node, error) {
	if nodes, ok := r.resolved[name]; ok {
		return nodes, nil
	}
	if r.resolving[name] {
		return nil, &Error{Kind: PlaceholderUnresolved, Format: name, Msg: "circular placeholder reference"}
	}
	raw, ok := r.raw[name]
	if !ok {
		return nil, nil
	}
	r.resolving[name] = true
	defer delete(r.resolving, name)

	var nodes []Node
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, &Error{Kind: BadShape, Format: name, Msg: "decoding format nodes", Err: err}
	}
	for i := range nodes {
		resolved, err := r.resolveNode(name, nodes[i], "")
		if err != nil {
			return nil, err
		}
		nodes[i] = resolved
	}
	r.resolved[name] = nodes
	return nodes, nil
}

func (r *resolver) resolveNode(formatName string, n Node, parentLoop string) (Node, error) {
	switch n.Type {
	case Placeholder:
		return r.resolvePlaceholder(formatName, n, parentLoop)
	case Loop:
		children := make([]Node, len(n.Segments))
		for i, child := range n.Segments {
			resolved, err := r.resolveNode(formatName, child, n.ID)
			if err != nil {
				return Node{}, err
			}
			children[i] = resolved
		}
		n.Segments = children
		return n, nil
	default:
		return n, nil
	}
}

// resolvePlaceholder looks up the placeholder's replacement (defaulting
// to its own id), deep-copies the replacement's head node by
// marshal/unmarshal round trip so the registry never aliases one segment
// definition across two transaction sets, and patches {req, max_uses,
// repeat} onto the copy where the placeholder specified an override.
func (r *resolver) resolvePlaceholder(formatName string, ph Node, parentLoop string) (Node, error) {
	replName := ph.Replacement
	if replName == "" {
		replName = ph.ID
	}
	headList, err := r.resolve(replName)
	if err != nil {
		return Node{}, err
	}
	if len(headList) < 1 {
		return Node{}, &Error{
			Kind: PlaceholderUnresolved, Format: formatName, NodeID: ph.ID,
			Msg: fmt.Sprintf("missing segment data %q for placeholder in loop %s", replName, parentLoop),
		}
	}
	head := headList[0]
	headBytes, err := json.Marshal(head)
	if err != nil {
		return Node{}, &Error{Kind: IoError, Format: formatName, NodeID: ph.ID, Err: err}
	}
	if gjson.GetBytes(headBytes, "id").String() != ph.ID {
		return Node{}, &Error{
			Kind: SegmentMismatch, Format: formatName, NodeID: ph.ID,
			Msg: fmt.Sprintf("replacement %q id does not match placeholder id %q", replName, ph.ID),
		}
	}

	patched := headBytes
	if ph.Req != "" {
		if patched, err = sjson.SetBytes(patched, "req", string(ph.Req)); err != nil {
			return Node{}, &Error{Kind: IoError, Format: formatName, NodeID: ph.ID, Err: err}
		}
	}
	if ph.Override != nil && ph.Override.MaxUses != nil {
		if patched, err = sjson.SetBytes(patched, "max_uses", *ph.Override.MaxUses); err != nil {
			return Node{}, &Error{Kind: IoError, Format: formatName, NodeID: ph.ID, Err: err}
		}
	}
	if ph.Override != nil && ph.Override.Repeat != nil {
		if patched, err = sjson.SetBytes(patched, "repeat", *ph.Override.Repeat); err != nil {
			return Node{}, &Error{Kind: IoError, Format: formatName, NodeID: ph.ID, Err: err}
		}
	}

	var replacement Node
	if err := json.Unmarshal(patched, &replacement); err != nil {
		return Node{}, &Error{Kind: BadShape, Format: formatName, NodeID: ph.ID, Err: err}
	}

	if replacement.Type == Loop {
		children := make([]Node, len(replacement.Segments))
		for i, child := range replacement.Segments {
			resolved, err := r.resolveNode(formatName, child, replacement.ID)
			if err != nil {
				return Node{}, err
			}
			children[i] = resolved
		}
		replacement.Segments = children
	}
	return replacement, nil
}
