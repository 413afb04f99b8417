package gen

var (
	// FeatureSeq generates bulk methods that accept iter.Seq and iter.Seq2
	// values. It only applies to targets whose go directive is 1.23 or later.
	FeatureSeq = Feature{
		Name:        "seq",
		Stage:       Stable,
		Default:     true,
		Description: "Generates AddAll*Seq and PutAll*Seq builder methods for list and map properties",
	}

	// FeatureMapper generates Map* methods that replace a property value with
	// the result of a function applied to it.
	FeatureMapper = Feature{
		Name:        "mapper",
		Stage:       Stable,
		Default:     true,
		Description: "Generates Map* builder methods for required and nullable properties",
	}

	// FeatureMustBuild generates a MustBuild method that panics instead of
	// returning an error.
	FeatureMustBuild = Feature{
		Name:        "mustbuild",
		Stage:       Beta,
		Default:     true,
		Description: "Generates a MustBuild builder method",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureSeq,
		FeatureMapper,
		FeatureMustBuild,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change or disappear.
	Experimental

	// Alpha features are complete, but their generated API may still change.
	Alpha

	// Beta features are documented, and no breaking changes are expected.
	Beta

	// Stable features are Beta features that have been in use for a while.
	Stable
)

// String returns the lower-case name of the stage.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the freebuild codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// LookupFeature returns the known feature with the given name.
func LookupFeature(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
