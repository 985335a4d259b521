// Package staff implements the roster and shift preference service.
//
// Staff records carry the skill level and work status the scheduler's
// constraints key off; shift preferences declare which days each worker is
// willing to work and are the eligibility source for grid construction.
//
// The service layer contains pure business logic and depends on the
// Repository interface defined in repository.go. It never imports
// net/http or database/sql directly.
package staff
