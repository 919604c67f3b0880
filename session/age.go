package session

import "time"

// Age returns completed years between dob and today by calendar arithmetic.
// A Feb 29 birthday is reached on Mar 1 in non-leap years.
func Age(dob, today time.Time) int {
	by, bm, bd := dob.Date()
	ty, tm, td := today.Date()

	years := ty - by
	months := int(tm) - int(bm)
	if td < bd {
		months--
	}
	if months < 0 {
		years--
	}
	return years
}
