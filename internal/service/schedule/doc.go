// Package schedule implements the scheduling pipeline: sales forecasting,
// decision grid construction, constraint solving, and assignment storage.
//
// A scheduling run moves through fixed stages. The grid is built from the
// roster, the submitted preferences, and the per-day sales predictions; the
// solver then picks one worker set per store hour, with the synthetic
// overflow worker absorbing demand no real worker can cover. Solved
// assignments atomically replace whatever the window held before.
//
// The service layer depends on the Repository interface defined in
// repository.go plus small capability interfaces for weather, festivals,
// the forecaster, and the planner. It never imports net/http or
// database/sql directly.
package schedule
