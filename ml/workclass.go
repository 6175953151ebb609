package ml

import "fmt"

// Workclass is a display label shown in the form. Each one resolves to a
// category the workclass encoder was fitted on.
type Workclass int

const (
	WorkclassPrivate Workclass = iota
	WorkclassSelfEmpInc
	WorkclassSelfEmpNotInc
	WorkclassFederalGov
	WorkclassLocalGov
	WorkclassStateGov
	WorkclassOther

	workclassCount
)

type workclassEntry struct {
	display  string
	category string
}

// workclassTable is indexed by Workclass.
var workclassTable = [workclassCount]workclassEntry{
	WorkclassPrivate:       {"Private Sector", "Private"},
	WorkclassSelfEmpInc:    {"Self Employed (Incorporated)", "Self-emp-inc"},
	WorkclassSelfEmpNotInc: {"Self Employed (Not Incorporated)", "Self-emp-not-inc"},
	WorkclassFederalGov:    {"Center-Government", "Federal-gov"},
	WorkclassLocalGov:      {"Local-Government", "Local-gov"},
	WorkclassStateGov:      {"State-Government", "State-gov"},
	WorkclassOther:         {"Other", "Other"},
}

// The form offers exactly seven workclass choices.
var _ = [1]struct{}{}[len(workclassTable)-7]

// String returns the display label.
func (w Workclass) String() string {
	if w < 0 || w >= workclassCount {
		return fmt.Sprintf("Workclass(%d)", int(w))
	}
	return workclassTable[w].display
}

// Category returns the label the workclass encoder knows.
func (w Workclass) Category() string {
	if w < 0 || w >= workclassCount {
		return ""
	}
	return workclassTable[w].category
}

// ParseWorkclass resolves a display label.
func ParseWorkclass(display string) (Workclass, error) {
	for i, entry := range workclassTable {
		if entry.display == display {
			return Workclass(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDisplayLabel, display)
}

// WorkclassLabels returns the display labels in form order.
func WorkclassLabels() []string {
	labels := make([]string, 0, len(workclassTable))
	for _, entry := range workclassTable {
		labels = append(labels, entry.display)
	}
	return labels
}
