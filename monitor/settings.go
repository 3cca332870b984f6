package monitor

import "time"

// Defaults for Settings.
const (
	DefaultPollInterval  = 10 * time.Second
	DefaultAddedCutoff   = 30 * time.Minute
	DefaultCreatedCutoff = time.Hour
)

// ErrorPolicy controls what happens when a client call fails mid-iteration.
type ErrorPolicy int

const (
	// ErrorPolicyExit aborts the iteration and returns the error, ending Run.
	ErrorPolicyExit ErrorPolicy = iota

	// ErrorPolicyContinue logs the error and moves on to the next torrent.
	ErrorPolicyContinue
)

func (p ErrorPolicy) String() string {
	if p == ErrorPolicyContinue {
		return "continue"
	}
	return "exit"
}

// Settings holds the recovery policy
type Settings struct {
	PollInterval  time.Duration
	AddedCutoff   time.Duration
	CreatedCutoff time.Duration
	DryRun        bool
	ErrorPolicy   ErrorPolicy
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		PollInterval:  DefaultPollInterval,
		AddedCutoff:   DefaultAddedCutoff,
		CreatedCutoff: DefaultCreatedCutoff,
	}
}

// Result summarizes one iteration
type Result struct {
	Checked        int
	SkippedState   int
	SkippedFilter  int
	SkippedAdded   int
	SkippedCreated int
	Failed         int

	// Recovered lists the hashes resumed and re-announced, in order. In
	// dry-run mode it lists the hashes that would have been.
	Recovered []string
}
