// Package msg defines the message types used by the dashboard's Bubble Tea
// event loop and the command factories producing them.
//
// Messages owned by a single component live next to it (filter.CommitDueMsg,
// count.LoadedMsg). This package holds the ones that cross component
// boundaries: page fetches, status-bar notices and config reloads.
package msg
