// Package plan reads and writes rename plans.
//
// A plan is the batch of rename intents for one run. It comes from one
// of two places:
//
//   - a CSV file with a header row and the columns old_entity_id,
//     new_entity_id, old_friendly_name, new_friendly_name (empty cell =
//     unset), or
//   - a regex search/replace over the live registry, deriving each
//     new_entity_id by substitution on the current id.
//
// Plans can also be written back to CSV so an operator can review and
// hand-edit a generated plan before applying it.
//
// Parse failures are fatal to the run and reported before any
// connection to the hub is used for updates.
package plan
