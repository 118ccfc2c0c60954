package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestExtractCompanyInfo(t *testing.T) {
	page := model.CrawledPage{
		Title:    "Beta Labs",
		Markdown: "Beta Labs makes payment rails. Trusted by banks!\n\nfollow us",
		Links: []string{
			"https://twitter.com/betalabs",
			"https://github.com/beta-labs",
			"https://www.facebook.com/betalabs?ref=footer",
			"https://netflix.com/title",
		},
	}

	info := extractCompanyInfo(page, "betalabs.io")

	assert.Equal(t, "betalabs.io", info.Domain)
	require.NotNil(t, info.Name)
	assert.Equal(t, "Beta Labs", *info.Name)
	require.NotNil(t, info.Description)
	assert.Equal(t, "Beta Labs makes payment rails. Trusted by banks!", *info.Description)
	assert.Equal(t, "https://twitter.com/betalabs", *info.SocialLinks.Twitter)
	assert.Equal(t, "https://github.com/beta-labs", *info.SocialLinks.GitHub)
	assert.Equal(t, "https://facebook.com/betalabs", *info.SocialLinks.Facebook)
	assert.Nil(t, info.SocialLinks.LinkedIn)
}

func TestExtractCompanyInfo_Empty(t *testing.T) {
	info := extractCompanyInfo(model.CrawledPage{Markdown: "lowercase only text"}, "x.com")

	assert.Nil(t, info.Name)
	assert.Nil(t, info.Description)
	assert.NotNil(t, info.SocialLinks)
	assert.Equal(t, []string{}, info.Technologies)
}

func TestEnrichCompanyInfo(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		industry string
		techs    []string
		city     string
		state    string
	}{
		{
			name:     "fintech with office",
			text:     "Financial technology for lenders.\nOur office is in San Francisco, CA.\nBuilt with Next.js, Node.js and PostgreSQL.",
			industry: "Fintech",
			techs:    []string{"Next.Js", "Node.Js", "Postgresql"},
			city:     "San Francisco",
			state:    "CA",
		},
		{
			name:     "first industry wins",
			text:     "Cybersecurity and marketing analytics. Based in Denver",
			industry: "Marketing",
			techs:    []string{},
			city:     "Denver",
		},
		{
			name:  "nothing found",
			text:  "we make things",
			techs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := model.CompanyInfo{}
			enrichCompanyInfo(&info, tt.text)

			if tt.industry == "" {
				assert.Nil(t, info.Industry)
			} else {
				require.NotNil(t, info.Industry)
				assert.Equal(t, tt.industry, *info.Industry)
			}
			assert.Equal(t, tt.techs, info.Technologies)

			if tt.city == "" {
				assert.Nil(t, info.Location)
				return
			}
			require.NotNil(t, info.Location)
			assert.Equal(t, tt.city, *info.Location.City)
			if tt.state == "" {
				assert.Nil(t, info.Location.State)
			} else {
				assert.Equal(t, tt.state, *info.Location.State)
			}
		})
	}
}

func TestEnrichCompanyInfo_TechLimit(t *testing.T) {
	info := model.CompanyInfo{}
	enrichCompanyInfo(&info, "react vue angular python java golang rust aws azure gcp docker terraform redis")

	assert.Len(t, info.Technologies, 10)
	assert.Equal(t, "Angular", info.Technologies[0])
}

func TestExtractContacts(t *testing.T) {
	md := "## Leadership\n\n" +
		"- **Maria Garcia** - VP Engineering Manager\n\n" +
		"Sam Lee\nCo-Founder\n\n" +
		"[Profile](https://linkedin.com/in/alex-kim)\n\n" +
		"Reach maria@acme.com, alexkim@acme.com, sales@acme.com or sales@acme.com"

	contacts := extractContacts(md)

	require.Len(t, contacts, 4)
	assert.Equal(t, "Maria Garcia", *contacts[0].Name)
	assert.Equal(t, "VP Engineering Manager", *contacts[0].Title)
	assert.Equal(t, "maria@acme.com", *contacts[0].Email)

	assert.Equal(t, "Sam Lee", *contacts[1].Name)
	assert.Equal(t, "Co-Founder", *contacts[1].Title)

	assert.Equal(t, "Alex Kim", *contacts[2].Name)
	assert.Equal(t, "https://linkedin.com/in/alex-kim", *contacts[2].LinkedInURL)
	assert.Equal(t, "alexkim@acme.com", *contacts[2].Email)

	assert.Nil(t, contacts[3].Name)
	assert.Equal(t, "sales@acme.com", *contacts[3].Email)
}

func TestExtractContacts_Limit(t *testing.T) {
	md := ""
	for _, local := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		md += local + "x@acme.com "
	}
	assert.Len(t, extractContacts(md), maxContacts)
}

func TestPriorityLinks(t *testing.T) {
	base, _ := url.Parse("https://www.acme.com/")
	links := []string{
		"https://www.acme.com/about",
		"/about#team",
		"https://acme.com/careers/",
		"/products",
		"/company/leadership",
		"https://jobs.lever.co/acme",
		"/join-us",
		"https://www.acme.com/",
		"%zz",
	}

	assert.Equal(t, []string{
		"https://www.acme.com/about",
		"https://acme.com/careers/",
		"https://www.acme.com/company/leadership",
		"https://www.acme.com/join-us",
	}, priorityLinks(links, base, true, true))

	assert.Equal(t, []string{
		"https://www.acme.com/about",
		"https://www.acme.com/company/leadership",
	}, priorityLinks(links, base, true, false))

	assert.Nil(t, priorityLinks(links, base, false, false))
}

func TestDetectHiring(t *testing.T) {
	assert.True(t, detectHiring("We're Hiring across teams"))
	assert.True(t, detectHiring("3 open positions"))
	assert.True(t, detectHiring("Apply now"))
	assert.False(t, detectHiring("Meet the team"))
}

func TestEstimateFit(t *testing.T) {
	assert.Equal(t, 40, estimateFit(model.CompanyInfo{}))

	partial := model.CompanyInfo{
		Name:     model.StringPtr("Acme"),
		Industry: model.StringPtr("Saas"),
		IsHiring: true,
	}
	assert.Equal(t, 65, estimateFit(partial))

	partial.HasCareersPage = true
	partial.Technologies = []string{"Go"}
	assert.Equal(t, 70, estimateFit(partial))
}

func TestTitleWords(t *testing.T) {
	assert.Equal(t, "Next.Js", titleWords("next.js"))
	assert.Equal(t, "Google Cloud", titleWords("google cloud"))
	assert.Equal(t, "Aws", titleWords("AWS"))
}
