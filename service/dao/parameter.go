package dao

// Parameter narrows List results to records whose field Name equals one of
// its values.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter matching any of values.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Values returns the accepted values; nil when Value is not textual.
func (p *Parameter) Values() []string {
	switch actual := p.Value.(type) {
	case string:
		return []string{actual}
	case []string:
		return actual
	}
	return nil
}
