package adapter

import "net/http"

// deviceProfile is a static browser header profile. Keeping a small fixed
// table beats rotating random agents: carriers flag inconsistent header sets
// faster than repeated consistent ones.
type deviceProfile struct {
	userAgent string
	chromeUA  bool
	mobile    bool
}

var deviceProfiles = map[string]deviceProfile{
	"desktop_chrome": {
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		chromeUA:  true,
	},
	"desktop_firefox": {
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
	},
	"mobile_safari": {
		userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		mobile:    true,
	},
}

// profileFor selects the header profile a carrier responds best to.
// FedEx behaves with Chrome, Estes with Firefox, Peninsula serves its mobile
// surface most reliably.
func profileFor(carrier string, mobile bool) deviceProfile {
	if mobile {
		return deviceProfiles["mobile_safari"]
	}
	switch carrier {
	case "estes":
		return deviceProfiles["desktop_firefox"]
	case "peninsula":
		return deviceProfiles["mobile_safari"]
	default:
		return deviceProfiles["desktop_chrome"]
	}
}

// headersFor builds a realistic header set for the carrier.
func headersFor(carrier string, mobile bool, referer string) http.Header {
	p := profileFor(carrier, mobile)

	h := http.Header{}
	h.Set("User-Agent", p.userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("DNT", "1")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Cache-Control", "max-age=0")

	if p.chromeUA {
		h.Set("sec-ch-ua", `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`)
		h.Set("sec-ch-ua-mobile", "?0")
		h.Set("sec-ch-ua-platform", `"Windows"`)
	}
	if referer != "" {
		h.Set("Referer", referer)
	}
	return h
}
