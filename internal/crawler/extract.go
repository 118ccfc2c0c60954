package crawler

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/sells-group/prospect-cli/internal/model"
)

const (
	maxDescriptionRunes = 500
	maxTechnologies     = 10
	maxContacts         = 10
)

var (
	headingRe     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	descriptionRe = regexp.MustCompile(`(?:^|\n)([A-Z][^.!?]*(?:[.!?](?:\s|$))){1,3}`)

	linkedInCompanyRe = regexp.MustCompile(`(?i)linkedin\.com/company/([^\s"'/>)]+)`)
	twitterRe         = regexp.MustCompile(`(?i)\b(?:twitter|x)\.com/([A-Za-z0-9_]+)`)
	githubRe          = regexp.MustCompile(`(?i)github\.com/([^\s"'/>)]+)`)
	facebookRe        = regexp.MustCompile(`(?i)facebook\.com/([^\s"'/>)?]+)`)

	emailRe           = regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[\w.-]+\b`)
	linkedInProfileRe = regexp.MustCompile(`(?i)linkedin\.com/in/([^\s"'/>)?]+)`)
	nameTitleRe       = regexp.MustCompile(
		`(?:^|\n)(?:[-*] )?\*{0,2}([A-Z][a-z]+ [A-Z][a-z]+)\*{0,2}[,\s\-–|]*` +
			`((?:[A-Z][a-zA-Z&]*[ \t]+)*(?:Co-)?(?:Officer|Director|Manager|Lead|Head|VP|CEO|CTO|CFO|COO|President|Founder))\b`)

	locationRe = regexp.MustCompile(
		`(?i:headquarter|\bhq\b|office|based in|located in)[^\n]*?\b([A-Z][a-z]+(?: [A-Z][a-z]+)*(?:,\s*[A-Z]{2}\b)?)`)

	hiringRes = []*regexp.Regexp{
		regexp.MustCompile(`\bjoin our team\b`),
		regexp.MustCompile(`\bwe're hiring\b`),
		regexp.MustCompile(`\bwe are hiring\b`),
		regexp.MustCompile(`\bopen positions?\b`),
		regexp.MustCompile(`\bcurrent openings?\b`),
		regexp.MustCompile(`\bjob openings?\b`),
		regexp.MustCompile(`\bapply now\b`),
	}

	techRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(react|vue|angular|next\.?js)\b`),
		regexp.MustCompile(`\b(python|node\.?js|java|golang|rust)\b`),
		regexp.MustCompile(`\b(aws|azure|gcp|google cloud)\b`),
		regexp.MustCompile(`\b(kubernetes|docker|terraform)\b`),
		regexp.MustCompile(`\b(postgresql|mongodb|redis|elasticsearch)\b`),
	}
)

// industrySignals maps an industry to the phrases that reveal it, checked
// in order.
var industrySignals = []struct {
	industry string
	phrases  []string
}{
	{"Saas", []string{"saas", "software as a service", "cloud software"}},
	{"Fintech", []string{"fintech", "financial technology", "payments", "banking software"}},
	{"Healthcare", []string{"healthcare", "medical", "health tech", "healthtech"}},
	{"Ecommerce", []string{"ecommerce", "e-commerce", "online store", "shopping"}},
	{"Marketing", []string{"marketing", "advertising", "martech"}},
	{"Security", []string{"cybersecurity", "security", "infosec"}},
}

var (
	aboutPaths   = []string{"about", "team", "company", "who-we-are"}
	careersPaths = []string{"careers", "jobs", "work-with-us", "join"}
)

// extractCompanyInfo reads the company name, description and social links
// from the main page.
func extractCompanyInfo(page model.CrawledPage, domain string) model.CompanyInfo {
	info := model.CompanyInfo{Domain: domain, Technologies: []string{}}

	if m := headingRe.FindStringSubmatch(page.Markdown); m != nil {
		info.Name = nonEmpty(m[1])
	}
	if info.Name == nil {
		info.Name = nonEmpty(page.Title)
	}

	if m := descriptionRe.FindString(page.Markdown); m != "" {
		info.Description = nonEmpty(truncateRunes(strings.TrimSpace(m), maxDescriptionRunes))
	}

	text := page.Markdown + "\n" + strings.Join(page.Links, "\n")
	social := &model.SocialLinks{}
	if m := linkedInCompanyRe.FindStringSubmatch(text); m != nil {
		social.LinkedIn = model.StringPtr("https://linkedin.com/company/" + m[1])
	}
	if m := twitterRe.FindStringSubmatch(text); m != nil {
		social.Twitter = model.StringPtr("https://twitter.com/" + m[1])
	}
	if m := githubRe.FindStringSubmatch(text); m != nil {
		social.GitHub = model.StringPtr("https://github.com/" + m[1])
	}
	if m := facebookRe.FindStringSubmatch(text); m != nil {
		social.Facebook = model.StringPtr("https://facebook.com/" + m[1])
	}
	info.SocialLinks = social

	return info
}

// enrichCompanyInfo fills industry, technologies and location from the
// text of every crawled page.
func enrichCompanyInfo(info *model.CompanyInfo, allText string) {
	lower := strings.ToLower(allText)

	for _, sig := range industrySignals {
		if slices.ContainsFunc(sig.phrases, func(p string) bool { return strings.Contains(lower, p) }) {
			info.Industry = model.StringPtr(sig.industry)
			break
		}
	}

	seen := make(map[string]bool)
	for _, re := range techRes {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			seen[titleWords(m[1])] = true
		}
	}
	techs := make([]string, 0, len(seen))
	for t := range seen {
		techs = append(techs, t)
	}
	slices.Sort(techs)
	if len(techs) > maxTechnologies {
		techs = techs[:maxTechnologies]
	}
	info.Technologies = techs

	if m := locationRe.FindStringSubmatch(allText); m != nil {
		if city, state, ok := strings.Cut(m[1], ","); ok {
			info.Location = &model.LocationCriteria{
				City:    model.StringPtr(strings.TrimSpace(city)),
				State:   model.StringPtr(strings.TrimSpace(state)),
				Country: model.StringPtr("US"),
			}
		} else {
			info.Location = &model.LocationCriteria{City: model.StringPtr(strings.TrimSpace(m[1]))}
		}
	}
}

// extractContacts finds named people with titles, LinkedIn profiles and
// email addresses. Emails attach to the first contact whose name contains
// the address's local part.
func extractContacts(markdown string) []model.ContactInfo {
	var contacts []model.ContactInfo

	for _, m := range nameTitleRe.FindAllStringSubmatch(markdown, -1) {
		contacts = append(contacts, model.ContactInfo{
			Name:  model.StringPtr(strings.TrimSpace(m[1])),
			Title: nonEmpty(m[2]),
		})
	}

	for _, m := range linkedInProfileRe.FindAllStringSubmatch(markdown, -1) {
		slug := m[1]
		contacts = append(contacts, model.ContactInfo{
			Name:        model.StringPtr(titleWords(strings.ReplaceAll(slug, "-", " "))),
			LinkedInURL: model.StringPtr("https://linkedin.com/in/" + slug),
		})
	}

	seen := make(map[string]bool)
	for _, email := range emailRe.FindAllString(markdown, -1) {
		if seen[email] {
			continue
		}
		seen[email] = true

		local, _, _ := strings.Cut(strings.ToLower(email), "@")
		matched := false
		for i := range contacts {
			name := contacts[i].Name
			if name != nil && strings.Contains(strings.ReplaceAll(strings.ToLower(*name), " ", ""), local) {
				contacts[i].Email = model.StringPtr(email)
				matched = true
				break
			}
		}
		if !matched && len(contacts) < maxContacts {
			contacts = append(contacts, model.ContactInfo{Email: model.StringPtr(email)})
		}
	}

	if len(contacts) > maxContacts {
		contacts = contacts[:maxContacts]
	}
	return contacts
}

// priorityLinks returns same-site links whose path names an about or
// careers section, resolved against base and de-duplicated.
func priorityLinks(links []string, base *url.URL, includeAbout, includeCareers bool) []string {
	var keys []string
	if includeAbout {
		keys = append(keys, aboutPaths...)
	}
	if includeCareers {
		keys = append(keys, careersPaths...)
	}
	if len(keys) == 0 {
		return nil
	}

	var out []string
	seen := map[string]bool{strings.TrimSuffix(base.String(), "/"): true}
	for _, href := range links {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		u := base.ResolveReference(ref)
		u.Fragment = ""
		if !sameSite(u.Host, base.Host) {
			continue
		}
		p := strings.ToLower(u.Path)
		if !slices.ContainsFunc(keys, func(k string) bool { return strings.Contains(p, k) }) {
			continue
		}
		key := strings.TrimSuffix(u.String(), "/")
		if !seen[key] {
			seen[key] = true
			out = append(out, u.String())
		}
	}
	return out
}

func isCareersLink(link string) bool {
	l := strings.ToLower(link)
	return strings.Contains(l, "career") || strings.Contains(l, "jobs")
}

func isAboutLink(link string) bool {
	l := strings.ToLower(link)
	return strings.Contains(l, "about") || strings.Contains(l, "team")
}

func detectHiring(markdown string) bool {
	lower := strings.ToLower(markdown)
	return slices.ContainsFunc(hiringRes, func(re *regexp.Regexp) bool { return re.MatchString(lower) })
}

// estimateFit scores how complete the crawled profile is, capped at 70.
func estimateFit(c model.CompanyInfo) int {
	score := 40
	if c.Name != nil {
		score += 5
	}
	if c.Description != nil {
		score += 5
	}
	if c.Industry != nil {
		score += 10
	}
	if c.Location != nil {
		score += 5
	}
	if len(c.Technologies) > 0 {
		score += 5
	}
	if c.SocialLinks != nil && c.SocialLinks.LinkedIn != nil {
		score += 5
	}
	if c.IsHiring {
		score += 10
	}
	if c.HasCareersPage {
		score += 5
	}
	return min(score, 70)
}

func sameSite(a, b string) bool {
	return strings.EqualFold(strings.TrimPrefix(a, "www."), strings.TrimPrefix(b, "www."))
}

// titleWords upper-cases the first letter of every alphabetic run and
// lower-cases the rest, so "next.js" becomes "Next.Js".
func titleWords(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
