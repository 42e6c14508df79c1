package domain

// Attribute is a single field assignment inside a Patch.
type Attribute struct {
	Field string
	Value any
}

// Patch is an ordered list of field assignments applied by a record store
// update. The store always appends its own updated_at refresh.
type Patch []Attribute

// Set appends an assignment.
func (p *Patch) Set(field string, value any) {
	*p = append(*p, Attribute{Field: field, Value: value})
}

// Fields returns the assigned field names in order.
func (p Patch) Fields() []string {
	out := make([]string, len(p))
	for i, a := range p {
		out[i] = a.Field
	}
	return out
}

// Lookup returns the last value assigned to field.
func (p Patch) Lookup(field string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Field == field {
			return p[i].Value, true
		}
	}
	return nil, false
}

// Presence is the outcome of an existence probe.
type Presence uint8

const (
	Absent Presence = iota
	Present
	Unknown
)

func (p Presence) String() string {
	switch p {
	case Absent:
		return "absent"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}
