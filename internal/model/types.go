package model

// Config represents the application configuration loaded from YAML.
type Config struct {
	Remote         string `yaml:"remote"`
	MaxRows        int    `yaml:"max_rows"`
	MaxBranches    int    `yaml:"max_branches"`
	PickerHeight   int    `yaml:"picker_height"`
	QueryLimit     int    `yaml:"query_limit"`
	ConflictMarker string `yaml:"conflict_marker"`
	FetchOnStart   *bool  `yaml:"fetch_on_start"`
	DebugLog       string `yaml:"debug_log"`
}

// ShouldFetch reports whether branch discovery should fetch from all remotes first.
func (c Config) ShouldFetch() bool {
	return c.FetchOnStart == nil || *c.FetchOnStart
}

// Row pairs the catalog index of the branch to check out with the
// catalog index of the branch to pull from.
type Row struct {
	CheckoutIndex int
	PullIndex     int
}

// Column identifies one of the two cells of a row.
type Column int

const (
	ColumnCheckout Column = iota
	ColumnPullFrom
)

// Other returns the opposite column.
func (c Column) Other() Column {
	if c == ColumnCheckout {
		return ColumnPullFrom
	}
	return ColumnCheckout
}

func (c Column) String() string {
	if c == ColumnCheckout {
		return "Checkout"
	}
	return "Pull From"
}

// Stage is one of the four ordered steps applied to a row during a sync run.
type Stage int

const (
	StageCheckout Stage = iota
	StageSelfPull
	StageCrossPull
	StagePush
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageCheckout, StageSelfPull, StageCrossPull, StagePush}

func (s Stage) String() string {
	switch s {
	case StageCheckout:
		return "Checkout"
	case StageSelfPull:
		return "SelfPull"
	case StageCrossPull:
		return "CrossPull"
	case StagePush:
		return "Push"
	default:
		return "Unknown"
	}
}
