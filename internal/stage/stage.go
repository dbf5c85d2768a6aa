// Package stage defines the closed catalog of orchestration stages: a
// stable ordinal, a display name, and an if-success gating flag per stage.
// Plugins bind handlers to these identifiers; they cannot add new ones.
package stage

// Stage is a symbolic stage identifier.
type Stage string

// The closed set of stage identifiers, in execution order.
const (
	Boot                Stage = "BOOT"
	Init                Stage = "INIT"
	Setup               Stage = "SETUP"
	InternalPackages     Stage = "INTERNAL_PACKAGES"
	Programs             Stage = "PROGRAMS"
	LateSetup            Stage = "LATE_SETUP"
	Customization        Stage = "CUSTOMIZATION"
	Validation           Stage = "VALIDATION"
	TransactionBegin     Stage = "TRANSACTION_BEGIN"
	EarlyMisc            Stage = "EARLY_MISC"
	Packages             Stage = "PACKAGES"
	Misc                 Stage = "MISC"
	TransactionEnd       Stage = "TRANSACTION_END"
	Closeup              Stage = "CLOSEUP"
	Cleanup              Stage = "CLEANUP"
	PreTerminate         Stage = "PRE_TERMINATE"
	Terminate            Stage = "TERMINATE"
	Reboot               Stage = "REBOOT"
)

// Priority constants. Lower numeric values sort earlier.
const (
	PriorityFirst   = -200
	PriorityHigh    = -100
	PriorityMedium  = -50
	PriorityDefault = 0
	PriorityPost    = 50
	PriorityLow     = 100
	PriorityLast    = 200
)

// Entry is the catalog row for one stage: its ordinal, display string, and
// if-success gating flag (true => skip this stage and its remaining
// handlers once ERROR has been set).
type Entry struct {
	Ordinal   int
	Display   string
	IfSuccess bool
}

// database is the static, closed stage table. Ordinal order is the total
// order stages execute in.
var database = map[Stage]Entry{
	Boot:             {0, "Boot", false},
	Init:             {10, "Initializing", false},
	Setup:            {20, "Environment Setup", false},
	InternalPackages: {30, "Environment Packages Setup", true},
	Programs:         {40, "Programs detection", true},
	LateSetup:        {50, "Environment Customization", true},
	Customization:    {60, "Package Customization", true},
	Validation:       {70, "Setup Validation", true},
	TransactionBegin: {80, "Transaction Setup", true},
	EarlyMisc:        {90, "Misc configuration", true},
	Packages:         {100, "Package Installation", true},
	Misc:             {110, "Misc configuration", true},
	TransactionEnd:   {120, "Transaction Commit", true},
	Closeup:          {130, "Closing up", true},
	Cleanup:          {140, "Cleanup", false},
	PreTerminate:     {150, "Pre-termination", false},
	Terminate:        {160, "Termination", false},
	Reboot:           {170, "Reboot", false},
}

// ordered is the stable ordinal-sorted list of stage identifiers, computed
// once at init time from database.
var ordered []Stage

func init() {
	ordered = make([]Stage, 0, len(database))
	for s := range database {
		ordered = append(ordered, s)
	}
	// Insertion sort over a closed, small table: ordinals are unique and
	// assigned by hand above, so a stable sort by ordinal is deterministic.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && database[ordered[j-1]].Ordinal > database[ordered[j]].Ordinal; j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}
}

// Lookup returns the catalog entry for a stage. The ok result is false for
// any identifier outside the closed set.
func Lookup(s Stage) (Entry, bool) {
	e, ok := database[s]
	return e, ok
}

// Ordinal returns the stage's sort key, or -1 if s is not a known stage.
func Ordinal(s Stage) int {
	e, ok := database[s]
	if !ok {
		return -1
	}
	return e.Ordinal
}

// Display returns the stage's display string.
func Display(s Stage) string {
	e, ok := database[s]
	if !ok {
		return string(s)
	}
	return e.Display
}

// IfSuccess reports whether the stage is gated on a clean ERROR state.
func IfSuccess(s Stage) bool {
	e, ok := database[s]
	return ok && e.IfSuccess
}

// Ordered returns all known stages in ascending ordinal order.
func Ordered() []Stage {
	out := make([]Stage, len(ordered))
	copy(out, ordered)
	return out
}
