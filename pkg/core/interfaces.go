package core

// Environment defines the rules and mechanics of a single-agent episode
type Environment interface {
	// Reset restores the initial layout and returns the first observation
	Reset() (Observation, error)
	// Step applies one action and reports the new observation and whether
	// the episode is over
	Step(action Action) (Observation, bool, Info)
	// Observe returns the current observation without changing state
	Observe() Observation
	// Steps returns the number of actions applied since the last reset
	Steps() int
}
