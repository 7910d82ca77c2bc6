package model

import "strconv"

// NormalizeRouteKey renders the canonical form of a route key. The
// roster producer stores numeric route numbers with one decimal place
// ("12" becomes "12.0"), so both sides of every match go through this
// function. Non-numeric keys pass through unchanged.
func NormalizeRouteKey(key string) string {
	if key == "" {
		return ""
	}
	f, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return key
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}
