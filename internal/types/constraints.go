package types

// DataConstraints is the normalized shape of one schema node. Every bound
// is optional and nil when the document does not declare it; a nil pointer
// means "unconstrained", never "zero".
type DataConstraints struct {
	Type     string
	Format   string
	Nullable bool

	MinLength *int64
	MaxLength *int64
	Pattern   string

	Minimum    *float64
	Maximum    *float64
	MultipleOf *float64

	MinItems    *int64
	MaxItems    *int64
	UniqueItems bool

	Required      []string
	MinProperties *int64
	MaxProperties *int64

	Enum []interface{}

	// Properties and Items carry nested constraints for object and array
	// nodes, up to the analyzer's depth bound.
	Properties map[string]*DataConstraints
	Items      *DataConstraints
}

// Unconstrained reports whether the node carries no usable information,
// which is what depth-bounded or cycle-broken analysis degrades to.
func (c *DataConstraints) Unconstrained() bool {
	if c == nil {
		return true
	}
	return c.Type == "" && len(c.Enum) == 0 && len(c.Properties) == 0 && c.Items == nil
}
