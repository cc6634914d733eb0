// Package domain models National Weather Service (NWS) active alerts as the
// monitor sees them.
//
// # Data Source
//
// Alerts come from the NWS public API, https://api.weather.gov/alerts/active,
// a GeoJSON FeatureCollection. Only four properties of each feature matter
// here:
//
//	event        "Tornado Warning", "Severe Thunderstorm Watch", ...
//	headline     one-line summary issued by the forecast office
//	description  free-form product text
//	areaDesc     semicolon separated county/zone names, e.g. "Anchorage, AK"
//
// headline and description are frequently null on the feed; they are read
// as empty strings.
//
// # Categories
//
// The monitor tracks a closed set of four categories, checked in a fixed
// priority order (see [Categories]):
//
//	tornado            Tornado Warning
//	thunderstorm       Severe Thunderstorm Warning
//	tornadowatch       Tornado Watch
//	thunderstormwatch  Severe Thunderstorm Watch
//
// The first category whose keyword is a substring of the event name wins, so
// "Tornado Warning Statement" is a tornado alert. Matching is case-sensitive.
//
// # Exclusions
//
// A record is dropped before categorization when headline+description
// contains an exclusion keyword ("AST"/"ADT", i.e. Atlantic time zone
// products) or when its area mentions the region marker ("AK").
//
// # Identity
//
// Two alerts with the same headline and description are the same alert,
// regardless of when they were fetched. See [Identity].
package domain
