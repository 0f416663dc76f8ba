package enrich

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/leadharbor/leadgen-cli/internal/lead"
)

// platformDomains maps social platforms to the hostnames their profile
// links live on.
var platformDomains = map[string][]string{
	lead.PlatformFacebook:  {"facebook.com", "fb.com"},
	lead.PlatformTwitter:   {"twitter.com", "x.com"},
	lead.PlatformLinkedIn:  {"linkedin.com"},
	lead.PlatformInstagram: {"instagram.com"},
	lead.PlatformYouTube:   {"youtube.com", "youtu.be"},
	lead.PlatformTikTok:    {"tiktok.com"},
	lead.PlatformWhatsApp:  {"wa.me", "api.whatsapp.com"},
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// junkEmailMarkers disqualify addresses that are placeholders or
// machine-only mailboxes.
var junkEmailMarkers = []string{
	"example.com", "test.com", "sample.com", "placeholder.com",
	"privacy@", "noreply@", "no-reply@", "donotreply@",
}

// ExtractSocialLinks scans anchor hrefs in an HTML document and returns
// the first profile link found per platform. WhatsApp links are reduced
// to the bare phone number they carry.
func ExtractSocialLinks(r io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: parse html")
	}

	links := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		platform, value := classifyLink(href)
		if platform == "" || links[platform] != "" {
			return
		}
		links[platform] = value
	})
	return links, nil
}

// classifyLink maps an href to a social platform, returning the cleaned
// link value, or ("", "") when the href is not a profile link.
func classifyLink(href string) (platform, value string) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || u.Host == "" {
		return "", ""
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	for _, p := range lead.Platforms {
		for _, domain := range platformDomains[p] {
			if host != domain && !strings.HasSuffix(host, "."+domain) {
				continue
			}
			// Share widgets point at the platform but not at a profile.
			if strings.Contains(u.Path, "/share") || strings.Contains(u.Path, "/sharer") {
				return "", ""
			}
			if p == lead.PlatformWhatsApp {
				phone := lead.NormalizePhone(u.Path + u.Query().Get("phone"))
				if phone == "" {
					return "", ""
				}
				return p, phone
			}
			if u.Path == "" || u.Path == "/" {
				// Bare platform homepage, not a profile.
				return "", ""
			}
			return p, u.Scheme + "://" + u.Host + u.Path
		}
	}
	return "", ""
}

// ExtractEmail returns the first plausible business email in the page
// body, or "" when none survives the junk filter.
func ExtractEmail(body string) string {
	for _, match := range emailRegex.FindAllString(body, 20) {
		candidate := strings.ToLower(match)
		junk := false
		for _, marker := range junkEmailMarkers {
			if strings.Contains(candidate, marker) {
				junk = true
				break
			}
		}
		if !junk {
			return candidate
		}
	}
	return ""
}
