package astro

// Al Adhan API response types. Only the fields this client reads are kept.

type timingsResponse struct {
	Code   int         `json:"code"`
	Status string      `json:"status"`
	Data   timingsData `json:"data"`
}

type timingsData struct {
	Timings apiTimings `json:"timings"`
	Date    apiDate    `json:"date"`
	Meta    apiMeta    `json:"meta"`
}

// apiTimings contains prayer and event times as HH:MM strings. The API may
// append a timezone suffix like " (BST)" which is stripped during parsing.
type apiTimings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Sunset  string `json:"Sunset"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

type apiDate struct {
	Hijri apiHijriDate `json:"hijri"`
}

type apiHijriDate struct {
	Day         string              `json:"day"`
	Year        string              `json:"year"`
	Month       apiHijriMonth       `json:"month"`
	Designation apiHijriDesignation `json:"designation"`
}

type apiHijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

type apiHijriDesignation struct {
	Abbreviated string `json:"abbreviated"`
}

// format returns the Hijri date as "DD MonthName YYYY AH", or "" when the
// response carried no usable Hijri date.
func (h apiHijriDate) format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

type apiMeta struct {
	Timezone string `json:"timezone"`
}
