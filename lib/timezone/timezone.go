package timezone

import "time"

// Location is the business timezone, the office is in Miami.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

func Now() time.Time {
	return time.Now().In(Location)
}

// Stamp formats t in the business timezone as "2006-01-02 15:04", the
// format used in CRM record titles.
func Stamp(t time.Time) string {
	return t.In(Location).Format("2006-01-02 15:04")
}
