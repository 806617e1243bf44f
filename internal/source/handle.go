package source

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sells-group/lead-qualifier/internal/model"
)

var (
	linkedInIDRe   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-_%]{1,99}$`)
	facebookNameRe = regexp.MustCompile(`^[A-Za-z0-9.]{1,50}$`)
	numericRe      = regexp.MustCompile(`^[0-9]{1,20}$`)
	instagramRe    = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)
	twitterRe      = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)
)

// Path segments on social hosts that are never profiles.
var reservedFacebook = map[string]bool{
	"groups": true, "pages": true, "events": true, "watch": true, "login": true,
	"marketplace": true, "hashtag": true, "sharer": true, "home.php": true,
}

var reservedInstagram = map[string]bool{
	"p": true, "reel": true, "reels": true, "explore": true, "stories": true, "accounts": true,
}

var reservedTwitter = map[string]bool{
	"home": true, "search": true, "explore": true, "i": true, "intent": true, "hashtag": true,
	"settings": true, "login": true,
}

// NormalizeHandle converts a caller-supplied handle into the identifier the
// source's client expects. ok is false when the handle cannot identify a
// profile.
func NormalizeHandle(src model.Source, raw string) (string, bool) {
	switch src {
	case model.SourceLinkedIn:
		return LinkedInID(raw)
	case model.SourceInstagram:
		return InstagramUsername(raw)
	case model.SourceFacebook:
		return FacebookRef(raw)
	case model.SourceTwitter:
		return TwitterUsername(raw)
	default:
		return "", false
	}
}

// LinkedInID extracts the public profile id from a profile URL
// (linkedin.com/in/<id>) or accepts a bare id.
func LinkedInID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !looksLikeURL(raw) {
		return raw, linkedInIDRe.MatchString(raw)
	}
	u, ok := parseHostURL(raw, "linkedin.com")
	if !ok {
		return "", false
	}
	segs := pathSegments(u)
	for i := 0; i+1 < len(segs); i++ {
		if segs[i] == "in" {
			id, err := url.PathUnescape(segs[i+1])
			if err != nil {
				return "", false
			}
			return id, linkedInIDRe.MatchString(segs[i+1])
		}
	}
	return "", false
}

// FacebookRef returns a vanity name ("jane.doe") or "profile.php?id=<n>".
func FacebookRef(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !looksLikeURL(raw) {
		if numericRe.MatchString(raw) {
			return "profile.php?id=" + raw, true
		}
		return raw, facebookNameRe.MatchString(raw) && !reservedFacebook[strings.ToLower(raw)]
	}
	u, ok := parseHostURL(raw, "facebook.com", "fb.com")
	if !ok {
		return "", false
	}
	segs := pathSegments(u)
	if len(segs) == 0 {
		return "", false
	}
	if segs[0] == "profile.php" {
		id := u.Query().Get("id")
		if !numericRe.MatchString(id) {
			return "", false
		}
		return "profile.php?id=" + id, true
	}
	// facebook.com/people/<Display-Name>/<numeric id>
	if segs[0] == "people" && len(segs) >= 3 && numericRe.MatchString(segs[2]) {
		return "profile.php?id=" + segs[2], true
	}
	name := segs[0]
	if reservedFacebook[strings.ToLower(name)] || !facebookNameRe.MatchString(name) {
		return "", false
	}
	return name, true
}

// InstagramUsername strips '@' or extracts the username from a profile URL.
func InstagramUsername(raw string) (string, bool) {
	return username(raw, instagramRe, reservedInstagram, "instagram.com", "instagr.am")
}

// TwitterUsername strips '@' or extracts the handle from a profile URL.
func TwitterUsername(raw string) (string, bool) {
	return username(raw, twitterRe, reservedTwitter, "twitter.com", "x.com")
}

func username(raw string, re *regexp.Regexp, reserved map[string]bool, hosts ...string) (string, bool) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if looksLikeURL(raw) {
		u, ok := parseHostURL(raw, hosts...)
		if !ok {
			return "", false
		}
		segs := pathSegments(u)
		if len(segs) == 0 {
			return "", false
		}
		raw = strings.TrimPrefix(segs[0], "@")
	}
	if reserved[strings.ToLower(raw)] {
		return "", false
	}
	return raw, re.MatchString(raw)
}

func looksLikeURL(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, "://")
}

// parseHostURL parses s (adding a scheme when missing) and checks that its
// host is one of hosts or a subdomain of one.
func parseHostURL(s string, hosts ...string) (*url.URL, bool) {
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return u, true
		}
	}
	return nil, false
}

func pathSegments(u *url.URL) []string {
	var segs []string
	for _, s := range strings.Split(u.EscapedPath(), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
