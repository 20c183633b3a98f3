package schema

// Registry is the frozen result of a Builder.Load call. Every placeholder
// has been resolved to a concrete segment or loop and every ID element's
// code-list reference has been resolved to its code map. A Registry has
// no exported mutators: once built it is safe to share read-only across
// any number of concurrent encode/decode/validate calls.
type Registry struct {
	formats map[string][]Node
	codes   map[string]map[string]string
}

// Lookup returns the ordered schema nodes registered under id — a
// transaction-set id ("810"), a reusable segment id ("N1"), or a reusable
// loop id ("L_N1") — and whether anything was registered under it.
func (r *Registry) Lookup(id string) ([]Node, bool) {
	nodes, ok := r.formats[id]
	return nodes, ok
}

// CodeList returns a resolved code list by name and whether it was found.
func (r *Registry) CodeList(name string) (map[string]string, bool) {
	list, ok := r.codes[name]
	return list, ok
}

// TransactionSetIDs returns every loaded format id, for the cmd/x12
// schemas subcommand.
func (r *Registry) TransactionSetIDs() []string {
	ids := make([]string, 0, len(r.formats))
	for id := range r.formats {
		ids = append(ids, id)
	}
	return ids
}

// CodeListNames returns every loaded code-list name.
func (r *Registry) CodeListNames() []string {
	names := make([]string, 0, len(r.codes))
	for name := range r.codes {
		names = append(names, name)
	}
	return names
}
