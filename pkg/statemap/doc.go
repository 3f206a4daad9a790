// Package statemap converts between the nested widget state of a search
// page (UiState) and its flat URL form (routestate.RouteState).
//
// Both directions are pure functions:
//
//	rs := statemap.StateToRoute(ui)
//	ui = statemap.RouteToState(rs)
//
// Numeric widget values that cannot be parsed become NaN and are passed
// on as is; callers decide what to do with them.
package statemap
