package entities

// Bom represents one release of a bill of materials
type Bom struct {
	ID        string // group:artifact of the BoM itself
	Version   string
	Artifacts map[string]string // group:artifact -> pinned version
}

// Key returns the catalog lookup key id@version
func (b Bom) Key() string {
	return BomKey(b.ID, b.Version)
}

// BomKey builds the catalog lookup key for a BoM release
func BomKey(id, version string) string {
	return id + "@" + version
}

// BomCatalog indexes BoM releases by id@version
type BomCatalog map[string]Bom

// Lookup returns the pinned table for a BoM release
func (c BomCatalog) Lookup(id, version string) (Bom, bool) {
	b, ok := c[BomKey(id, version)]
	return b, ok
}

// Merge returns a new catalog with the given BoMs layered over c
func (c BomCatalog) Merge(boms []Bom) BomCatalog {
	merged := make(BomCatalog, len(c)+len(boms))
	for k, v := range c {
		merged[k] = v
	}
	for _, b := range boms {
		merged[b.Key()] = b
	}
	return merged
}
