package tcx

// Namespace URIs used by Garmin TCX v2 exports
const (
	TrainingCenterNS    = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	UserProfileNS       = "http://www.garmin.com/xmlschemas/UserProfile/v2"
	ActivityExtensionNS = "http://www.garmin.com/xmlschemas/ActivityExtension/v2"
	ProfileExtensionNS  = "http://www.garmin.com/xmlschemas/ProfileExtension/v1"
	ActivityGoalsNS     = "http://www.garmin.com/xmlschemas/ActivityGoals/v1"
)

// Namespaces maps the fixed prefixes (ns through ns5) to their URIs.
// It is a plain value: a Reader keeps its own copy, so nothing can change
// the set a Reader resolves against once it is constructed.
type Namespaces struct {
	NS  string // TrainingCenterDatabase (default namespace)
	NS2 string // UserProfile
	NS3 string // ActivityExtension
	NS4 string // ProfileExtension
	NS5 string // ActivityGoals
}

// DefaultNamespaces returns the namespace set of the observed TCX schema
func DefaultNamespaces() Namespaces {
	return Namespaces{
		NS:  TrainingCenterNS,
		NS2: UserProfileNS,
		NS3: ActivityExtensionNS,
		NS4: ProfileExtensionNS,
		NS5: ActivityGoalsNS,
	}
}

// Lookup resolves a prefix ("ns", "ns2", ...) to its URI
func (n Namespaces) Lookup(prefix string) (string, bool) {
	switch prefix {
	case "ns":
		return n.NS, true
	case "ns2":
		return n.NS2, true
	case "ns3":
		return n.NS3, true
	case "ns4":
		return n.NS4, true
	case "ns5":
		return n.NS5, true
	}
	return "", false
}
