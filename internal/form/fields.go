package form

// FieldKind selects the control a field is rendered with
type FieldKind int

const (
	Line FieldKind = iota
	Multiline
	Numeric
)

func (k FieldKind) String() string {
	switch k {
	case Line:
		return "line"
	case Multiline:
		return "multiline"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Field describes one editable listing field
type Field struct {
	Name  string
	Label string
	Kind  FieldKind
}

// Fields lists the listing fields in display order
var Fields = []Field{
	{Name: "title", Label: "Title", Kind: Line},
	{Name: "description", Label: "Description", Kind: Multiline},
	{Name: "price", Label: "Price per night", Kind: Numeric},
	{Name: "guests", Label: "Guests", Kind: Numeric},
	{Name: "beds", Label: "Beds", Kind: Numeric},
	{Name: "baths", Label: "Baths", Kind: Numeric},
}

// FieldByName looks up a field descriptor
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
